package service

import (
	"os"
	"testing"

	"rjokes/database"
	"rjokes/database/model"

	"github.com/stretchr/testify/assert"
)

func setup() {
	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
}

func teardown() {
	database.CloseDB()
	os.Remove("test.db")
}

func TestRegisterThenLogin(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	created, err := service.Register("alice", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Greater(t, created.Id, 0)

	// The stored hash must not be the plaintext password.
	var row model.User
	err = database.GetDB().Where("username = ?", "alice").First(&row).Error
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", row.PasswordHash)
	assert.NotEmpty(t, row.PasswordHash)

	loggedIn, err := service.FindByLogin("alice", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, created.Id, loggedIn.Id)
	assert.Equal(t, "alice", loggedIn.Username)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.Register("alice", "secret1")
	assert.NoError(t, err)

	_, wrongPassword := service.FindByLogin("alice", "wrong")
	_, unknownUser := service.FindByLogin("nobody", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrBadCredentials)
	assert.ErrorIs(t, unknownUser, ErrBadCredentials)
	// Both failure causes must be indistinguishable to the caller.
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.Register("alice", "secret1")
	assert.NoError(t, err)

	_, err = service.Register("alice", "another1")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	var count int64
	err = database.GetDB().Model(model.User{}).Where("username = ?", "alice").Count(&count).Error
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRegisterRaceSettledByUniqueIndex(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	_, err := service.Register("alice", "secret1")
	assert.NoError(t, err)

	// Simulate the loser of the check-then-insert race by inserting
	// directly, past the fast-path check.
	err = database.GetDB().Create(&model.User{Username: "alice", PasswordHash: "x"}).Error
	assert.True(t, database.IsDuplicate(err))
}

func TestFindById(t *testing.T) {
	setup()
	defer teardown()

	service := UserService{}

	created, err := service.Register("bob", "secret1")
	assert.NoError(t, err)

	found, err := service.FindById(created.Id)
	assert.NoError(t, err)
	assert.Equal(t, created.Username, found.Username)

	_, err = service.FindById(created.Id + 100)
	assert.True(t, database.IsNotFound(err))
}
