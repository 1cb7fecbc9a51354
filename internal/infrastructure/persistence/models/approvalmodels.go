package models

type ApprovalTemplateModel struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:100;not null"`
	DefaultAssignee *uint
	CreatedAt       int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt       int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (ApprovalTemplateModel) TableName() string {
	return "approval_templates"
}

type TemplateStepModel struct {
	ID             uint `gorm:"primaryKey"`
	TemplateID     uint `gorm:"not null;index;uniqueIndex:uq_template_step_order"`
	StepOrder      int  `gorm:"not null;uniqueIndex:uq_template_step_order"`
	ApproverUserID *uint
	ApproverRoleID *uint
	CreatedAt      int64 `gorm:"autoCreateTime:milli;not null"`
}

func (TemplateStepModel) TableName() string {
	return "approval_template_steps"
}

type ApprovalProcessModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"uniqueIndex;not null"`
	TemplateID  uint   `gorm:"not null;index"`
	Status      string `gorm:"size:20;not null;index"`
	CurrentStep int    `gorm:"not null"`
	CompletedAt *int64
	CreatedAt   int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (ApprovalProcessModel) TableName() string {
	return "approval_processes"
}

type ProcessStepModel struct {
	ID         uint   `gorm:"primaryKey"`
	ProcessID  uint   `gorm:"not null;index;uniqueIndex:uq_process_step_order"`
	StepOrder  int    `gorm:"not null;uniqueIndex:uq_process_step_order"`
	ApproverID uint   `gorm:"not null;index"`
	ProxyID    *uint
	Status     string `gorm:"size:20;not null;index"`
	Comment    string `gorm:"type:text"`
	ActionAt   *int64
	CreatedAt  int64 `gorm:"autoCreateTime:milli;not null"`
}

func (ProcessStepModel) TableName() string {
	return "approval_process_steps"
}
