package events

import "time"

// Cell lifecycle event types.
const (
	NotebookOpened    = "NOTEBOOK_OPENED"
	NotebookClosed    = "NOTEBOOK_CLOSED"
	CellAdded         = "CELL_ADDED"
	CellMoved         = "CELL_MOVED"
	CellDeleted       = "CELL_DELETED"
	CellInputSet      = "CELL_INPUT_SET"
	CellOutputSet     = "CELL_OUTPUT_SET"
	CellOutputAdded   = "CELL_OUTPUT_ADDED"
	CellOutputDeleted = "CELL_OUTPUT_DELETED"
	CellOutputCleared = "CELL_OUTPUT_CLEARED"
)

// Event defines the contract for all notebook events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CELL_ADDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewNotebookEvent builds an event about a notebook, and optionally one of
// its cells. idSequence is attached when the order changed.
func NewNotebookEvent(eventType, notebookId, cellId string, idSequence []string) BaseEvent {
	data := map[string]interface{}{
		"notebook_id": notebookId,
	}
	if cellId != "" {
		data["cell_id"] = cellId
	}
	if idSequence != nil {
		data["id_sequence"] = idSequence
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
