package dto

import (
	"encoding/json"
	"time"
)

type CreateNotebookRequest struct {
	Name        string   `json:"name" validate:"max=255"`
	Description string   `json:"description"`
	Linear      *bool    `json:"linear"`
	Tags        []string `json:"tags" validate:"dive,required"`
}

// AddCellRequest inserts a cell next to ReferenceCellId. Without Input an
// empty code cell is created.
type AddCellRequest struct {
	NotebookId      string          `json:"notebook_id" validate:"required"`
	Input           json.RawMessage `json:"input"`
	ReferenceCellId string          `json:"reference_cell_id"`
	Position        string          `json:"position" validate:"omitempty,oneof=before after"`
}

type AddInputOutputRequest struct {
	NotebookId      string          `json:"notebook_id" validate:"required"`
	Input           json.RawMessage `json:"input" validate:"required"`
	Output          json.RawMessage `json:"output" validate:"required"`
	ReferenceCellId string          `json:"reference_cell_id"`
	Position        string          `json:"position" validate:"omitempty,oneof=before after"`
}

type SetInputRequest struct {
	NotebookId string          `json:"notebook_id" validate:"required"`
	Input      json.RawMessage `json:"input" validate:"required"`
}

type AddOutputRequest struct {
	NotebookId string          `json:"notebook_id" validate:"required"`
	CellId     string          `json:"cell_id" validate:"required"`
	Output     json.RawMessage `json:"output" validate:"required"`
}

// SetOutputRequest replaces all outputs of a cell. An empty list clears them.
type SetOutputRequest struct {
	NotebookId string            `json:"notebook_id" validate:"required"`
	CellId     string            `json:"cell_id" validate:"required"`
	Outputs    []json.RawMessage `json:"outputs"`
}

type MoveCellRequest struct {
	NotebookId      string `json:"notebook_id" validate:"required"`
	CellId          string `json:"cell_id" validate:"required"`
	ReferenceCellId string `json:"reference_cell_id" validate:"required,nefield=CellId"`
	Position        string `json:"position" validate:"omitempty,oneof=before after"`
}

type CellRequest struct {
	NotebookId string `json:"notebook_id" validate:"required"`
	CellId     string `json:"cell_id" validate:"required"`
}

type DeleteOutputRequest struct {
	NotebookId string `json:"notebook_id" validate:"required"`
	CellId     string `json:"cell_id" validate:"required"`
	MessageId  string `json:"message_id" validate:"required"`
}

type CellResponse struct {
	NotebookId  string   `json:"notebook_id"`
	CellId      string   `json:"cell_id"`
	Index       int      `json:"index"`
	OutputCount int      `json:"output_count"`
	IdSequence  []string `json:"id_sequence"`
}

type NotebookResponse struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	CellCount  int       `json:"cell_count"`
	IdSequence []string  `json:"id_sequence"`
	OpenedAt   time.Time `json:"opened_at"`
}

// PublishNotebookEventMessage is the payload put on the event topic.
type PublishNotebookEventMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
