package models

type ViewPermissionModel struct {
	ID        uint    `gorm:"primaryKey"`
	TicketID  uint    `gorm:"not null;index;uniqueIndex:uq_ticket_grant"`
	UserID    *uint   `gorm:"uniqueIndex:uq_ticket_grant"`
	Role      *string `gorm:"size:50;uniqueIndex:uq_ticket_grant"`
	GrantedBy uint    `gorm:"not null"`
	CreatedAt int64   `gorm:"autoCreateTime:milli;not null"`
}

func (ViewPermissionModel) TableName() string {
	return "ticket_view_permissions"
}
