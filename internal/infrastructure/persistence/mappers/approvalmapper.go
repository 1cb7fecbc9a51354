package mappers

import (
	"fmt"
	"time"

	"deskflow/internal/domain/approval"
	"deskflow/internal/infrastructure/persistence/models"
)

// ApprovalMapper handles the conversion between approval domain entities and
// persistence models.
type ApprovalMapper interface {
	ProcessToModel(p *approval.Process) *models.ApprovalProcessModel
	ProcessToDomain(model *models.ApprovalProcessModel, stepModels []models.ProcessStepModel) (*approval.Process, error)
	StepToModel(s *approval.Step) *models.ProcessStepModel
	TemplateToDomain(model *models.ApprovalTemplateModel, stepModels []models.TemplateStepModel) (*approval.Template, error)
}

type ApprovalMapperImpl struct{}

func NewApprovalMapper() ApprovalMapper {
	return &ApprovalMapperImpl{}
}

func (m *ApprovalMapperImpl) ProcessToModel(p *approval.Process) *models.ApprovalProcessModel {
	model := &models.ApprovalProcessModel{
		ID:          p.ID(),
		TicketID:    p.TicketID(),
		TemplateID:  p.TemplateID(),
		Status:      p.Status().String(),
		CurrentStep: p.CurrentStep(),
	}

	if p.CompletedAt() != nil {
		completed := p.CompletedAt().UnixMilli()
		model.CompletedAt = &completed
	}

	return model
}

func (m *ApprovalMapperImpl) ProcessToDomain(
	model *models.ApprovalProcessModel,
	stepModels []models.ProcessStepModel,
) (*approval.Process, error) {
	steps := make([]*approval.Step, 0, len(stepModels))
	for _, sm := range stepModels {
		step, err := m.stepToDomain(&sm)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	var completedAt *time.Time
	if model.CompletedAt != nil {
		t := millisToTime(*model.CompletedAt)
		completedAt = &t
	}

	return approval.ReconstructProcess(
		model.ID,
		model.TicketID,
		model.TemplateID,
		approval.ProcessStatus(model.Status),
		model.CurrentStep,
		completedAt,
		steps,
	)
}

func (m *ApprovalMapperImpl) StepToModel(s *approval.Step) *models.ProcessStepModel {
	model := &models.ProcessStepModel{
		ID:         s.ID(),
		ProcessID:  s.ProcessID(),
		StepOrder:  s.StepOrder(),
		ApproverID: s.ApproverID(),
		ProxyID:    s.ProxyID(),
		Status:     s.Status().String(),
		Comment:    s.Comment(),
	}

	if s.ActionAt() != nil {
		action := s.ActionAt().UnixMilli()
		model.ActionAt = &action
	}

	return model
}

func (m *ApprovalMapperImpl) stepToDomain(model *models.ProcessStepModel) (*approval.Step, error) {
	var actionAt *time.Time
	if model.ActionAt != nil {
		t := millisToTime(*model.ActionAt)
		actionAt = &t
	}

	step, err := approval.ReconstructStep(
		model.ID,
		model.ProcessID,
		model.StepOrder,
		model.ApproverID,
		model.ProxyID,
		approval.StepStatus(model.Status),
		model.Comment,
		actionAt,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid process step (id=%d): %w", model.ID, err)
	}
	return step, nil
}

func (m *ApprovalMapperImpl) TemplateToDomain(
	model *models.ApprovalTemplateModel,
	stepModels []models.TemplateStepModel,
) (*approval.Template, error) {
	steps := make([]approval.TemplateStep, 0, len(stepModels))
	for _, sm := range stepModels {
		step, err := approval.NewTemplateStep(sm.ID, sm.StepOrder, sm.ApproverUserID, sm.ApproverRoleID)
		if err != nil {
			return nil, fmt.Errorf("invalid template step (id=%d): %w", sm.ID, err)
		}
		steps = append(steps, step)
	}

	return approval.ReconstructTemplate(model.ID, model.Name, model.DefaultAssignee, steps)
}
