package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"deskflow/internal/domain/approval"
	"deskflow/internal/infrastructure/persistence/mappers"
	"deskflow/internal/infrastructure/persistence/models"
	"deskflow/internal/shared/constants"
	"deskflow/internal/shared/db"
	"deskflow/internal/shared/errors"
)

type ProcessRepository struct {
	db     *gorm.DB
	mapper mappers.ApprovalMapper
}

func NewProcessRepository(db *gorm.DB) *ProcessRepository {
	return &ProcessRepository{
		db:     db,
		mapper: mappers.NewApprovalMapper(),
	}
}

func (r *ProcessRepository) Save(ctx context.Context, process *approval.Process) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ProcessToModel(process)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save approval process: %w", err)
	}

	if err := process.SetID(model.ID); err != nil {
		return err
	}

	for _, step := range process.Steps() {
		stepModel := r.mapper.StepToModel(step)
		if err := tx.Create(stepModel).Error; err != nil {
			return fmt.Errorf("failed to save process step: %w", err)
		}
		if err := step.SetID(stepModel.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *ProcessRepository) Update(ctx context.Context, process *approval.Process) error {
	model := r.mapper.ProcessToModel(process)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.ApprovalProcessModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":       model.Status,
			"current_step": model.CurrentStep,
			"completed_at": model.CompletedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update approval process: %w", result.Error)
	}

	// The engine only updates after advancing or terminating the process, so
	// a surviving row always changes and reports as affected; zero rows means
	// the row is gone.
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(
			fmt.Sprintf("approval process %d no longer exists", model.ID))
	}

	return nil
}

// UpdateStepDecision writes the decided step only if the stored row is still
// pending. Two actors racing on the same step serialize here: the loser's
// write matches zero rows and reports the decision conflict.
func (r *ProcessRepository) UpdateStepDecision(ctx context.Context, step *approval.Step) error {
	model := r.mapper.StepToModel(step)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.ProcessStepModel{}).
		Where("id = ? AND status = ?", model.ID, approval.StepStatusPending.String()).
		Updates(map[string]any{
			"status":    model.Status,
			"comment":   model.Comment,
			"proxy_id":  model.ProxyID,
			"action_at": model.ActionAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update step decision: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var current models.ProcessStepModel
		if err := tx.First(&current, model.ID).Error; err != nil {
			return errors.NewStepNotFoundError(model.ID)
		}
		return errors.NewAlreadyDecidedError(model.ID, current.Status)
	}

	return nil
}

func (r *ProcessRepository) GetByID(ctx context.Context, id uint) (*approval.Process, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.ApprovalProcessModel
	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("approval process not found")
		}
		return nil, fmt.Errorf("failed to find approval process: %w", err)
	}

	return r.loadWithSteps(ctx, &model)
}

func (r *ProcessRepository) GetByTicketID(ctx context.Context, ticketID uint) (*approval.Process, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.ApprovalProcessModel
	if err := tx.Where("ticket_id = ?", ticketID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("approval process not found")
		}
		return nil, fmt.Errorf("failed to find approval process: %w", err)
	}

	return r.loadWithSteps(ctx, &model)
}

func (r *ProcessRepository) GetByStepID(ctx context.Context, stepID uint) (*approval.Process, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var stepModel models.ProcessStepModel
	if err := tx.First(&stepModel, stepID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewStepNotFoundError(stepID)
		}
		return nil, fmt.Errorf("failed to find process step: %w", err)
	}

	return r.GetByID(ctx, stepModel.ProcessID)
}

func (r *ProcessRepository) loadWithSteps(ctx context.Context, model *models.ApprovalProcessModel) (*approval.Process, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var stepModels []models.ProcessStepModel
	if err := tx.
		Where("process_id = ?", model.ID).
		Order("step_order ASC").
		Find(&stepModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load process steps: %w", err)
	}

	return r.mapper.ProcessToDomain(model, stepModels)
}

// ListPendingStepsForApprovers joins steps against their process and ticket so
// the inbox only surfaces steps that are actionable right now: step pending,
// process pending, and the step order equal to the process current pointer.
func (r *ProcessRepository) ListPendingStepsForApprovers(ctx context.Context, approverIDs []uint) ([]*approval.PendingStep, error) {
	if len(approverIDs) == 0 {
		return []*approval.PendingStep{}, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)

	var rows []struct {
		StepID       uint
		ProcessID    uint
		TicketID     uint
		TicketNumber string
		TicketTitle  string
		StepOrder    int
		ApproverID   uint
		CreatedAt    int64
	}

	err := tx.
		Table(constants.TableProcessSteps+" AS s").
		Select("s.id AS step_id, s.process_id, p.ticket_id, t.number AS ticket_number, t.title AS ticket_title, s.step_order, s.approver_id, s.created_at").
		Joins("JOIN "+constants.TableApprovalProcesses+" AS p ON p.id = s.process_id").
		Joins("JOIN "+constants.TableTickets+" AS t ON t.id = p.ticket_id").
		Where("s.status = ?", approval.StepStatusPending.String()).
		Where("p.status = ?", approval.ProcessStatusPending.String()).
		Where("s.step_order = p.current_step").
		Where("s.approver_id IN ?", approverIDs).
		Order("s.created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approval steps: %w", err)
	}

	pending := make([]*approval.PendingStep, 0, len(rows))
	for _, row := range rows {
		pending = append(pending, &approval.PendingStep{
			StepID:       row.StepID,
			ProcessID:    row.ProcessID,
			TicketID:     row.TicketID,
			TicketNumber: row.TicketNumber,
			TicketTitle:  row.TicketTitle,
			StepOrder:    row.StepOrder,
			ApproverID:   row.ApproverID,
			CreatedAt:    millisToUTC(row.CreatedAt),
		})
	}

	return pending, nil
}
