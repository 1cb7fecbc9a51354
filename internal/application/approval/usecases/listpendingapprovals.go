package usecases

import (
	"context"

	"deskflow/internal/application/approval/dto"
	"deskflow/internal/domain/approval"
	"deskflow/internal/shared/biztime"
	"deskflow/internal/shared/errors"
	"deskflow/internal/shared/logger"
)

type ListPendingApprovalsQuery struct {
	UserID uint
}

// ListPendingApprovalsUseCase returns the approval inbox: actionable pending
// steps where the user is the designated approver, plus steps of approvers
// the user currently proxies for.
type ListPendingApprovalsUseCase struct {
	processRepo approval.ProcessRepository
	proxies     approval.ProxyLookup
	logger      logger.Interface
}

func NewListPendingApprovalsUseCase(
	processRepo approval.ProcessRepository,
	proxies approval.ProxyLookup,
	logger logger.Interface,
) *ListPendingApprovalsUseCase {
	return &ListPendingApprovalsUseCase{
		processRepo: processRepo,
		proxies:     proxies,
		logger:      logger,
	}
}

func (uc *ListPendingApprovalsUseCase) Execute(ctx context.Context, query ListPendingApprovalsQuery) ([]*dto.PendingStepDTO, error) {
	uc.logger.Debugw("executing list pending approvals use case", "user_id", query.UserID)

	if query.UserID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}

	principals, err := uc.proxies.PrincipalsFor(ctx, query.UserID, biztime.NowUTC())
	if err != nil {
		uc.logger.Errorw("failed to resolve proxy principals", "user_id", query.UserID, "error", err)
		return nil, err
	}

	approverIDs := append([]uint{query.UserID}, principals...)
	rows, err := uc.processRepo.ListPendingStepsForApprovers(ctx, approverIDs)
	if err != nil {
		uc.logger.Errorw("failed to list pending steps", "user_id", query.UserID, "error", err)
		return nil, err
	}

	return dto.ToPendingStepDTOs(rows), nil
}
