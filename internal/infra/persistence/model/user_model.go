package model

import (
	"time"

	"authsvc/internal/domain/entity"
)

// UserModel mirrors the 'users' table. Login is the natural primary key.
type UserModel struct {
	Login        string `gorm:"type:varchar(255);primaryKey"`
	Email        string `gorm:"type:varchar(255);not null"`
	FullName     string `gorm:"type:varchar(255);not null"`
	Gender       string `gorm:"type:varchar(32);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// FromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func FromUserDomain(user *entity.User) *UserModel {
	if user == nil {
		return nil
	}

	return &UserModel{
		Login:        user.Login,
		Email:        user.Email,
		FullName:     user.FullName,
		Gender:       user.Gender,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// ToDomain converts a GORM UserModel to a domain User entity.
func (m *UserModel) ToDomain() *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		Login:        m.Login,
		Email:        m.Email,
		FullName:     m.FullName,
		Gender:       m.Gender,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
