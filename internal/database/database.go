package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken is returned when a user with the same username already exists.
	ErrUsernameTaken = errors.New("username already taken")
)

// DB is the storage interface used by the request handlers.
type DB interface {
	// CreateUser inserts a new user. A duplicate username yields ErrUsernameTaken.
	CreateUser(ctx context.Context, username, passwordHash string, role Role) (*User, error)
	// GetUserByUsername looks up a user by exact username. Unknown users yield ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// CountUsers returns the number of users, optionally filtered by role.
	CountUsers(ctx context.Context, role *Role) (int64, error)

	// CreateFeedback appends a feedback submission.
	CreateFeedback(ctx context.Context, feedback *Feedback) error
	// GetAllFeedback returns every feedback submission in store order.
	GetAllFeedback(ctx context.Context) ([]Feedback, error)
	// CountFeedback returns the number of feedback submissions.
	CountFeedback(ctx context.Context) (int64, error)

	Close() error
}

var _ DB = (*Client)(nil) // Ensure Client implements DB

// Client wraps the gorm.DB instance.
type Client struct {
	db   *gorm.DB
	path string
}

// New creates a new database connection and performs migrations.
func New(dbpath string) (*Client, error) {
	if dir := filepath.Dir(dbpath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbpath
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Feedback{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db, path: dbpath}, nil
}

// Path returns the path of the database file.
func (c *Client) Path() string {
	return c.path
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
