package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRoles = "user_roles"
	ContextKeyRequestID = "request_id"

	// Roles
	RoleAdmin = "admin"
	RoleUser  = "user"

	// Database table names
	TableTickets             = "tickets"
	TableTicketNotes         = "ticket_notes"
	TableTicketViewGrants    = "ticket_view_permissions"
	TableApprovalTemplates   = "approval_templates"
	TableTemplateSteps       = "approval_template_steps"
	TableApprovalProcesses   = "approval_processes"
	TableProcessSteps        = "approval_process_steps"
	TableApproverProxies     = "approver_proxies"
	TableUserRoles           = "user_roles"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
)
