package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"deskflow/internal/infrastructure/persistence/models"
)

// ProxyLookup answers delegation questions against the approver_proxies
// windows. A window is active at an instant when starts_at <= instant and
// ends_at is null or after the instant.
type ProxyLookup struct {
	db *gorm.DB
}

func NewProxyLookup(db *gorm.DB) *ProxyLookup {
	return &ProxyLookup{db: db}
}

func (l *ProxyLookup) IsProxyFor(ctx context.Context, approverID, actingUserID uint, asOf time.Time) (bool, error) {
	instant := asOf.UnixMilli()

	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.ApproverProxyModel{}).
		Where("approver_id = ? AND proxy_id = ?", approverID, actingUserID).
		Where("starts_at <= ?", instant).
		Where("(ends_at IS NULL OR ends_at > ?)", instant).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check proxy delegation: %w", err)
	}

	return count > 0, nil
}

func (l *ProxyLookup) PrincipalsFor(ctx context.Context, actingUserID uint, asOf time.Time) ([]uint, error) {
	instant := asOf.UnixMilli()

	var principals []uint
	err := l.db.WithContext(ctx).
		Model(&models.ApproverProxyModel{}).
		Distinct("approver_id").
		Where("proxy_id = ?", actingUserID).
		Where("approver_id <> ?", actingUserID).
		Where("starts_at <= ?", instant).
		Where("(ends_at IS NULL OR ends_at > ?)", instant).
		Pluck("approver_id", &principals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list proxy principals: %w", err)
	}

	return principals, nil
}
