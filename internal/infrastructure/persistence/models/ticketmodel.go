package models

import "gorm.io/datatypes"

type TicketModel struct {
	ID                 uint   `gorm:"primaryKey"`
	Number             string `gorm:"uniqueIndex;size:50;not null"`
	Title              string `gorm:"size:200;not null"`
	Description        string `gorm:"type:text;not null"`
	Status             string `gorm:"size:20;not null;index"`
	Priority           string `gorm:"size:20;not null;index"`
	Visibility         string `gorm:"size:20;not null;index"`
	DueDate            *int64 `gorm:"index"`
	AssignedTo         *uint  `gorm:"index"`
	TicketTemplateID   *uint
	ApprovalTemplateID *uint
	CreatedBy          uint  `gorm:"not null;index"`
	UpdatedBy          uint  `gorm:"not null"`
	Version            int   `gorm:"not null;default:1"`
	CreatedAt          int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt          int64 `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

type NoteModel struct {
	ID           uint           `gorm:"primaryKey"`
	TicketID     uint           `gorm:"not null;index"`
	AuthorID     uint           `gorm:"not null;index"`
	Body         string         `gorm:"type:text"`
	EventType    string         `gorm:"size:50;index"`
	EventDetails datatypes.JSON `gorm:"type:json"`
	CreatedAt    int64          `gorm:"autoCreateTime:milli;not null;index"`
	DeletedBy    *uint
	DeletedAt    *int64
}

func (NoteModel) TableName() string {
	return "ticket_notes"
}
