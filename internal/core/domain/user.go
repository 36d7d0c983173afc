package domain

import (
	"strings"
	"time"
)

// Role is the authorization role of an account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account able to authenticate against the API.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey" bson:"_id"`
	Name         string    `json:"name" gorm:"size:100;not null" bson:"name"`
	Login        string    `json:"login" gorm:"size:50;uniqueIndex;not null" bson:"login"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	PasswordHash string    `json:"-" gorm:"column:password;not null" bson:"password"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:USER" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u User) EntityID() int64 { return u.ID }

func (u *User) SetEntityID(id int64) { u.ID = id }

// Touch stamps the audit timestamps for a write at now.
func (u *User) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

// LoginFromEmail derives a default login from the local part of an email.
func LoginFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    int64
	Email string
	Role  Role
}
