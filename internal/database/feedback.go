package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Feedback is a visitor submission from the feedback form.
// It is not linked to a user and is never updated or deleted.
type Feedback struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Phone     string    `gorm:"not null"`
	Query     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the table name singular.
func (Feedback) TableName() string {
	return "feedback"
}

func (c *Client) CreateFeedback(ctx context.Context, feedback *Feedback) error {
	if err := c.db.WithContext(ctx).Create(feedback).Error; err != nil {
		log.Error("Failed to create feedback", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetAllFeedback(ctx context.Context) ([]Feedback, error) {
	var items []Feedback
	if err := c.db.WithContext(ctx).Find(&items).Error; err != nil {
		log.Error("Failed to get feedback", "error", err)
		return nil, err
	}
	return items, nil
}

func (c *Client) CountFeedback(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Feedback{}).Count(&count).Error; err != nil {
		log.Error("Failed to count feedback", "error", err)
		return 0, err
	}
	return count, nil
}
