package ticket

import (
	"testing"
	"time"

	vo "deskflow/internal/domain/ticket/valueobjects"
)

func TestNewUserNote(t *testing.T) {
	n, err := NewUserNote(1, 2, "looking into it")
	if err != nil {
		t.Fatalf("NewUserNote() error = %v", err)
	}
	if n.IsSystemEvent() {
		t.Error("IsSystemEvent() = true for a user comment")
	}
	if n.Body() != "looking into it" {
		t.Errorf("Body() = %q", n.Body())
	}
}

func TestNewUserNote_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		ticketID uint
		authorID uint
		body     string
	}{
		{"missing ticket", 0, 2, "hi"},
		{"missing author", 1, 0, "hi"},
		{"empty body", 1, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewUserNote(tt.ticketID, tt.authorID, tt.body); err == nil {
				t.Error("NewUserNote() error = nil, want error")
			}
		})
	}
}

func TestNewSystemEvent(t *testing.T) {
	n, err := NewSystemEvent(1, 2, vo.EventStatusChange, map[string]any{
		"from": "open",
		"to":   "in_progress",
	})
	if err != nil {
		t.Fatalf("NewSystemEvent() error = %v", err)
	}
	if !n.IsSystemEvent() {
		t.Error("IsSystemEvent() = false for a system event")
	}
	if n.Body() != "" {
		t.Errorf("Body() = %q, want empty", n.Body())
	}
	if n.EventDetails()["to"] != "in_progress" {
		t.Errorf("EventDetails()[to] = %v", n.EventDetails()["to"])
	}
}

func TestNewSystemEvent_InvalidType(t *testing.T) {
	if _, err := NewSystemEvent(1, 2, vo.EventType("reboot"), nil); err == nil {
		t.Error("NewSystemEvent() error = nil, want error for unknown event type")
	}
}

func TestReconstructNote_ExclusiveShape(t *testing.T) {
	now := time.Now().UTC()

	if _, err := ReconstructNote(1, 1, 2, "", "", nil, now, nil, nil); err == nil {
		t.Error("ReconstructNote() with neither body nor event: error = nil, want error")
	}
	if _, err := ReconstructNote(1, 1, 2, "text", vo.EventStatusChange, nil, now, nil, nil); err == nil {
		t.Error("ReconstructNote() with both body and event: error = nil, want error")
	}
}

func TestNote_MarkDeleted(t *testing.T) {
	n, err := NewUserNote(1, 2, "offensive remark")
	if err != nil {
		t.Fatalf("NewUserNote() error = %v", err)
	}

	if err := n.MarkDeleted(9); err != nil {
		t.Fatalf("MarkDeleted() error = %v", err)
	}
	if !n.IsDeleted() {
		t.Error("IsDeleted() = false after removal")
	}
	if n.DeletedBy() == nil || *n.DeletedBy() != 9 {
		t.Errorf("DeletedBy() = %v, want 9", n.DeletedBy())
	}
	if n.Body() != "offensive remark" {
		t.Error("body should be retained after soft delete")
	}

	if err := n.MarkDeleted(9); err == nil {
		t.Error("MarkDeleted() twice: error = nil, want error")
	}
}

func TestNote_MarkDeleted_SystemEvent(t *testing.T) {
	n, err := NewSystemEvent(1, 2, vo.EventAssignedToChange, map[string]any{"to": uint(5)})
	if err != nil {
		t.Fatalf("NewSystemEvent() error = %v", err)
	}
	if err := n.MarkDeleted(9); err == nil {
		t.Error("MarkDeleted() on system event: error = nil, want error")
	}
}
