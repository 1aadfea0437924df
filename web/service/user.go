package service

import (
	"errors"

	"rjokes/database"
	"rjokes/database/model"
	"rjokes/logger"
	"rjokes/util/crypto"
)

var (
	// ErrBadCredentials covers both unknown username and wrong password so
	// a caller cannot enumerate accounts.
	ErrBadCredentials = errors.New("username/password is incorrect")

	// ErrUsernameTaken is the registration conflict.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrCreateInconsistent means the insert did not yield a usable row.
	// This is a store fault, not a user input problem.
	ErrCreateInconsistent = errors.New("failed to create user record")
)

type UserService struct{}

// FindById returns the public fields of a user, or a not-found error
// (check with database.IsNotFound).
func (s *UserService) FindById(id int) (*model.UserInfo, error) {
	db := database.GetDB()

	user := &model.UserInfo{}
	err := db.Model(model.User{}).
		Select("id", "username").
		Where("id = ?", id).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByLogin verifies the credentials and returns the public user fields.
// Any mismatch, unknown username or wrong password alike, yields
// ErrBadCredentials.
func (s *UserService) FindByLogin(username string, password string) (*model.UserInfo, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrBadCredentials
	} else if err != nil {
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, ErrBadCredentials
	}

	return &model.UserInfo{Id: user.Id, Username: user.Username}, nil
}

// Register creates an account and returns its public fields. The username
// check here is only the friendly fast path; two racing registrations are
// settled by the unique index, surfaced as ErrUsernameTaken as well.
func (s *UserService) Register(username string, password string) (*model.UserInfo, error) {
	db := database.GetDB()

	var count int64
	err := db.Model(model.User{}).
		Where("username = ?", username).
		Limit(1).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: passwordHash}
	if err := db.Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	if user.Id < 1 {
		logger.Errorf("user insert for %q returned id %d", username, user.Id)
		return nil, ErrCreateInconsistent
	}

	created, err := s.FindById(user.Id)
	if database.IsNotFound(err) {
		logger.Errorf("user %d vanished right after insert", user.Id)
		return nil, ErrCreateInconsistent
	} else if err != nil {
		return nil, err
	}
	return created, nil
}
