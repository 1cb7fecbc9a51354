package mappers

import (
	"deskflow/internal/domain/permission"
	"deskflow/internal/infrastructure/persistence/models"
)

// GrantMapper handles the conversion between view grants and persistence models.
type GrantMapper interface {
	ToModel(g *permission.Grant) *models.ViewPermissionModel
	ToDomain(model *models.ViewPermissionModel) (*permission.Grant, error)
}

type GrantMapperImpl struct{}

func NewGrantMapper() GrantMapper {
	return &GrantMapperImpl{}
}

func (m *GrantMapperImpl) ToModel(g *permission.Grant) *models.ViewPermissionModel {
	return &models.ViewPermissionModel{
		ID:        g.ID(),
		TicketID:  g.TicketID(),
		UserID:    g.UserID(),
		Role:      g.Role(),
		GrantedBy: g.GrantedBy(),
		CreatedAt: g.CreatedAt().UnixMilli(),
	}
}

func (m *GrantMapperImpl) ToDomain(model *models.ViewPermissionModel) (*permission.Grant, error) {
	return permission.ReconstructGrant(
		model.ID,
		model.TicketID,
		model.UserID,
		model.Role,
		model.GrantedBy,
		millisToTime(model.CreatedAt),
	)
}
