package migrations

import (
	"fmt"

	"gorm.io/gorm"

	"deskflow/internal/infrastructure/persistence/models"
)

// Migrate creates or updates all tables owned by this service. The directory
// tables (user_roles, approver_proxies) are included so a fresh environment is
// usable before the external sync first runs.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.TicketModel{},
		&models.NoteModel{},
		&models.ViewPermissionModel{},
		&models.ApprovalTemplateModel{},
		&models.TemplateStepModel{},
		&models.ApprovalProcessModel{},
		&models.ProcessStepModel{},
		&models.UserModel{},
		&models.UserRoleModel{},
		&models.ApproverProxyModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	return nil
}

// ManagedTables lists every table AutoMigrate manages, in creation order.
func ManagedTables() []string {
	return []string{
		models.TicketModel{}.TableName(),
		models.NoteModel{}.TableName(),
		models.ViewPermissionModel{}.TableName(),
		models.ApprovalTemplateModel{}.TableName(),
		models.TemplateStepModel{}.TableName(),
		models.ApprovalProcessModel{}.TableName(),
		models.ProcessStepModel{}.TableName(),
		models.UserModel{}.TableName(),
		models.UserRoleModel{}.TableName(),
		models.ApproverProxyModel{}.TableName(),
	}
}
