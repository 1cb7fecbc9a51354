package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"deskflow/internal/infrastructure/persistence/models"
	"deskflow/internal/shared/errors"
)

// UserDirectory reads the synced company directory. Used by the notification
// worker to resolve recipient addresses.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) GetEmail(ctx context.Context, userID uint) (string, error) {
	var model models.UserModel
	if err := d.db.WithContext(ctx).First(&model, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", errors.NewNotFoundError("user not found")
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	return model.Email, nil
}
