// Package model holds the persisted shapes of domain entities.
package model

import (
	"time"

	"authsvc/internal/domain/entity"
)

// DocumentTypeUser tags user documents in shared key-value buckets.
const DocumentTypeUser = "user"

// UserDocument is the JSON body stored under a user's login in key-value
// and document stores. The login itself is the document key.
type UserDocument struct {
	Type      string    `json:"type"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Gender    string    `json:"gender"`
	Password  string    `json:"password"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserDocument maps a domain user to its stored form.
func NewUserDocument(user *entity.User) *UserDocument {
	return &UserDocument{
		Type:      DocumentTypeUser,
		Login:     user.Login,
		Email:     user.Email,
		FullName:  user.FullName,
		Gender:    user.Gender,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToEntity maps the document back. key wins over the body's login because
// documents written by older deployments carry no login field.
func (d *UserDocument) ToEntity(key string) *entity.User {
	return &entity.User{
		Login:        key,
		Email:        d.Email,
		FullName:     d.FullName,
		Gender:       d.Gender,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
