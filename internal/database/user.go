package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
// Rows are written once at registration and never updated.
// The role is copied into the session at login, so later changes are not seen by live sessions.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:text;not null;default:user"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (c *Client) CreateUser(ctx context.Context, username, passwordHash string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	user := User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := c.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		log.Error("Failed to create user", "error", err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error("Failed to get user by username", "error", err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) CountUsers(ctx context.Context, role *Role) (int64, error) {
	var count int64
	q := c.db.WithContext(ctx).Model(&User{})
	if role != nil {
		q = q.Where("role = ?", *role)
	}
	if err := q.Count(&count).Error; err != nil {
		log.Error("Failed to count users", "error", err)
		return 0, err
	}
	return count, nil
}
