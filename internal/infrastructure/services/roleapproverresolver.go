package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"deskflow/internal/shared/constants"
)

// RoleApproverResolver picks the concrete approver for a role-designated
// template step. The choice is deterministic (lowest user id in the role) so
// repeated instantiations of the same template resolve identically.
type RoleApproverResolver struct {
	db *gorm.DB
}

func NewRoleApproverResolver(db *gorm.DB) *RoleApproverResolver {
	return &RoleApproverResolver{db: db}
}

// Resolve returns the chosen user id, or 0 when the role has no members.
func (r *RoleApproverResolver) Resolve(ctx context.Context, roleID uint) (uint, error) {
	var userID *uint

	err := r.db.WithContext(ctx).
		Table(constants.TableUserRoles).
		Select("MIN(user_id)").
		Where("role_id = ?", roleID).
		Scan(&userID).Error
	if err != nil {
		return 0, fmt.Errorf("failed to resolve approver for role %d: %w", roleID, err)
	}

	if userID == nil {
		return 0, nil
	}
	return *userID, nil
}
