package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"deskflow/internal/domain/ticket"
	"deskflow/internal/infrastructure/persistence/mappers"
	"deskflow/internal/infrastructure/persistence/models"
	"deskflow/internal/shared/db"
	"deskflow/internal/shared/errors"
)

type NoteRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *NoteRepository) Save(ctx context.Context, note *ticket.Note) error {
	model, err := r.mapper.NoteToModel(note)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	return note.SetID(model.ID)
}

func (r *NoteRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Note, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.NoteModel
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*ticket.Note, 0, len(rows))
	for i := range rows {
		n, err := r.mapper.NoteToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, noteID uint) (*ticket.Note, error) {
	var model models.NoteModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, noteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("note not found")
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return r.mapper.NoteToDomain(&model)
}

// MarkDeleted writes only the moderation flags. The row itself is retained so
// the timeline keeps a tombstone for every removed comment.
func (r *NoteRepository) MarkDeleted(ctx context.Context, note *ticket.Note) error {
	model, err := r.mapper.NoteToModel(note)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.NoteModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"deleted_by": model.DeletedBy,
			"deleted_at": model.DeletedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark note deleted: %w", result.Error)
	}

	return nil
}
