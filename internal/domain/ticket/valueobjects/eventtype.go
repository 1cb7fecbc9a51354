package valueobjects

import "fmt"

// EventType identifies the kind of system event recorded on a ticket timeline.
type EventType string

const (
	EventStatusChange      EventType = "status_change"
	EventTitleChange       EventType = "title_change"
	EventDescriptionChange EventType = "description_change"
	EventPriorityChange    EventType = "priority_change"
	EventAssignedToChange  EventType = "assigned_to_change"
	EventDueDateChange     EventType = "due_date_change"
	EventApprovalSubmitted EventType = "approval_submitted"
	EventApprovalApproved  EventType = "approval_approved"
	EventApprovalRejected  EventType = "approval_rejected"
	EventPermissionGranted EventType = "permission_granted"
	EventNoteRemoved       EventType = "note_removed"
)

var validEventTypes = map[EventType]bool{
	EventStatusChange:      true,
	EventTitleChange:       true,
	EventDescriptionChange: true,
	EventPriorityChange:    true,
	EventAssignedToChange:  true,
	EventDueDateChange:     true,
	EventApprovalSubmitted: true,
	EventApprovalApproved:  true,
	EventApprovalRejected:  true,
	EventPermissionGranted: true,
	EventNoteRemoved:       true,
}

func (e EventType) String() string {
	return string(e)
}

func (e EventType) IsValid() bool {
	return validEventTypes[e]
}

func NewEventType(s string) (EventType, error) {
	e := EventType(s)
	if !e.IsValid() {
		return "", fmt.Errorf("invalid event type: %s", s)
	}
	return e, nil
}
