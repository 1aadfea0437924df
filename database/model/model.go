package model

import "time"

// User is an account that can log in and submit jokes. PasswordHash never
// leaves the user service.
type User struct {
	Id           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:128;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:256;not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserInfo is the public projection of a User.
type UserInfo struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
}

type Joke struct {
	Id         int       `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	JokesterId int       `json:"jokesterId" gorm:"not null;index"`
	Jokester   *User     `json:"-" gorm:"foreignKey:JokesterId;references:Id"`
	Name       string    `json:"name" form:"name" gorm:"size:256;not null"`
	Content    string    `json:"content" form:"content" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// JokeListItem is the projection used by the recent-jokes sidebar.
type JokeListItem struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}
