package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"deskflow/internal/domain/permission"
	"deskflow/internal/infrastructure/persistence/mappers"
	"deskflow/internal/infrastructure/persistence/models"
	"deskflow/internal/shared/db"
)

type GrantRepository struct {
	db     *gorm.DB
	mapper mappers.GrantMapper
}

func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{
		db:     db,
		mapper: mappers.NewGrantMapper(),
	}
}

// Save inserts the grant, ignoring the write when an equivalent grant already
// exists. The composite unique index on (ticket_id, user_id, role) makes the
// operation idempotent.
func (r *GrantRepository) Save(ctx context.Context, grant *permission.Grant) error {
	model := r.mapper.ToModel(grant)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save view grant: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Duplicate grant; load the stored row so the caller sees its id.
		existing, err := r.findEquivalent(ctx, grant)
		if err != nil {
			return err
		}
		model.ID = existing.ID
	}

	if grant.ID() == 0 {
		return grant.SetID(model.ID)
	}
	return nil
}

func (r *GrantRepository) findEquivalent(ctx context.Context, grant *permission.Grant) (*models.ViewPermissionModel, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Where("ticket_id = ?", grant.TicketID())

	if grant.UserID() != nil {
		query = query.Where("user_id = ?", *grant.UserID())
	} else {
		query = query.Where("user_id IS NULL")
	}
	if grant.Role() != nil {
		query = query.Where("role = ?", *grant.Role())
	} else {
		query = query.Where("role IS NULL")
	}

	var model models.ViewPermissionModel
	if err := query.First(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to load existing view grant: %w", err)
	}
	return &model, nil
}

func (r *GrantRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*permission.Grant, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.ViewPermissionModel
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list view grants: %w", err)
	}

	grants := make([]*permission.Grant, 0, len(rows))
	for i := range rows {
		g, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}

	return grants, nil
}

func (r *GrantRepository) HasGrant(ctx context.Context, ticketID, userID uint, roles []string) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	query := tx.Model(&models.ViewPermissionModel{}).Where("ticket_id = ?", ticketID)
	if len(roles) > 0 {
		query = query.Where("user_id = ? OR role IN ?", userID, roles)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check view grant: %w", err)
	}

	return count > 0, nil
}
