package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"deskflow/internal/domain/approval"
	"deskflow/internal/infrastructure/persistence/mappers"
	"deskflow/internal/infrastructure/persistence/models"
	"deskflow/internal/shared/db"
	"deskflow/internal/shared/errors"
)

// TemplateResolver loads approval templates with their ordered steps.
// Templates are administered out of band; this service only reads them.
type TemplateResolver struct {
	db     *gorm.DB
	mapper mappers.ApprovalMapper
}

func NewTemplateResolver(database *gorm.DB) *TemplateResolver {
	return &TemplateResolver{
		db:     database,
		mapper: mappers.NewApprovalMapper(),
	}
}

func (r *TemplateResolver) Get(ctx context.Context, templateID uint) (*approval.Template, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.ApprovalTemplateModel
	if err := tx.First(&model, templateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewTemplateNotFoundError(templateID)
		}
		return nil, fmt.Errorf("failed to find approval template: %w", err)
	}

	var stepModels []models.TemplateStepModel
	if err := tx.
		Where("template_id = ?", templateID).
		Order("step_order ASC").
		Find(&stepModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load template steps: %w", err)
	}

	return r.mapper.TemplateToDomain(&model, stepModels)
}
