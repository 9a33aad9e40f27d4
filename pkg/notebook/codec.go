package notebook

import (
	"encoding/json"
	"fmt"

	"notebook-core/pkg/message"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type cellJSON struct {
	TypeName       string             `json:"typeName"`
	Id             string             `json:"id"`
	InputMessage   json.RawMessage    `json:"inputMessage" validate:"required"`
	OutputMessages *[]json.RawMessage `json:"outputMessages,omitempty"`
	X              float64            `json:"x"`
	Y              float64            `json:"y"`
	Width          float64            `json:"width"`
	Height         float64            `json:"height"`
	Title          string             `json:"title"`
	Mode           string             `json:"mode"`
	CanResize      bool               `json:"canResize"`
	CanMove        bool               `json:"canMove"`
	CanEdit        bool               `json:"canEdit"`
	CanDelete      bool               `json:"canDelete"`
	CanExecute     bool               `json:"canExecute"`
}

type notebookJSON struct {
	TypeName             string            `json:"typeName"`
	Id                   string            `json:"id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	Linear               bool              `json:"linear"`
	Cells                []json.RawMessage `json:"cells"`
	CanMoveCells         bool              `json:"canMoveCells"`
	CanEditCells         bool              `json:"canEditCells"`
	CanResizeCells       bool              `json:"canResizeCells"`
	CanDeleteCells       bool              `json:"canDeleteCells"`
	CanEditProperties    bool              `json:"canEditProperties"`
	CanExecuteCells      bool              `json:"canExecuteCells"`
	CanSave              bool              `json:"canSave"`
	CanDelete            bool              `json:"canDelete"`
	InitializationCellId string            `json:"initializationCellId"`
	Tags                 []string          `json:"tags"`
}

// ToJSON encodes the cell. With excludeOutput the outputMessages key is left
// out entirely.
func (c *Cell) ToJSON(excludeOutput bool) ([]byte, error) {
	input, err := json.Marshal(c.InputMessage)
	if err != nil {
		return nil, fmt.Errorf("encode input of cell %s: %w", c.Id(), err)
	}
	out := cellJSON{
		TypeName:     TypeCell,
		Id:           c.Id(),
		InputMessage: input,
		X:            c.X,
		Y:            c.Y,
		Width:        c.Width,
		Height:       c.Height,
		Title:        c.Title,
		Mode:         c.Mode,
		CanResize:    c.CanResize,
		CanMove:      c.CanMove,
		CanEdit:      c.CanEdit,
		CanDelete:    c.CanDelete,
		CanExecute:   c.CanExecute,
	}
	if !excludeOutput {
		outputs := make([]json.RawMessage, 0, len(c.OutputMessages))
		for _, m := range c.OutputMessages {
			raw, err := json.Marshal(m)
			if err != nil {
				return nil, fmt.Errorf("encode output %s of cell %s: %w", m.GetId(), c.Id(), err)
			}
			outputs = append(outputs, raw)
		}
		out.OutputMessages = &outputs
	}
	return json.Marshal(out)
}

func (c *Cell) MarshalJSON() ([]byte, error) {
	return c.ToJSON(false)
}

// CellFromJSON rebuilds a detached cell. Input and outputs go through the
// message factory, so every variant met must be registered there.
func CellFromJSON(raw []byte) (*Cell, error) {
	if message.IsEmptyJSON(raw) {
		return nil, fmt.Errorf("%w: cell json is empty", ErrInvalidArgument)
	}
	var in cellJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: cell json: %v", ErrInvalidArgument, err)
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: cell json: %v", ErrInvalidArgument, err)
	}

	input, err := message.FromJSON(in.InputMessage)
	if err != nil {
		return nil, fmt.Errorf("%w: input message: %w", ErrInvalidArgument, err)
	}
	var outputs []message.Message
	if in.OutputMessages != nil {
		for i, o := range *in.OutputMessages {
			m, err := message.FromJSON(o)
			if err != nil {
				return nil, fmt.Errorf("%w: output message %d: %w", ErrInvalidArgument, i, err)
			}
			outputs = append(outputs, m)
		}
	}

	cell, err := NewCell(input, outputs...)
	if err != nil {
		return nil, err
	}
	cell.X = in.X
	cell.Y = in.Y
	cell.Width = in.Width
	cell.Height = in.Height
	cell.Title = in.Title
	cell.Mode = in.Mode
	cell.CanResize = in.CanResize
	cell.CanMove = in.CanMove
	cell.CanEdit = in.CanEdit
	cell.CanDelete = in.CanDelete
	cell.CanExecute = in.CanExecute
	return cell, nil
}

// ToJSON encodes the notebook and all its cells, passing excludeOutput down
// to every cell.
func (n *Notebook) ToJSON(excludeOutput bool) ([]byte, error) {
	cells := make([]json.RawMessage, 0, len(n.cells))
	for _, c := range n.cells {
		raw, err := c.ToJSON(excludeOutput)
		if err != nil {
			return nil, err
		}
		cells = append(cells, raw)
	}
	return json.Marshal(notebookJSON{
		TypeName:             TypeNotebook,
		Id:                   n.Id,
		Name:                 n.Name,
		Description:          n.Description,
		Linear:               n.Linear,
		Cells:                cells,
		CanMoveCells:         n.CanMoveCells,
		CanEditCells:         n.CanEditCells,
		CanResizeCells:       n.CanResizeCells,
		CanDeleteCells:       n.CanDeleteCells,
		CanEditProperties:    n.CanEditProperties,
		CanExecuteCells:      n.CanExecuteCells,
		CanSave:              n.CanSave,
		CanDelete:            n.CanDelete,
		InitializationCellId: n.InitializationCellId,
		Tags:                 n.Tags(),
	})
}

func (n *Notebook) MarshalJSON() ([]byte, error) {
	return n.ToJSON(false)
}

// FromJSON rebuilds a notebook with the same scalars, flags, tags and cell
// order as the encoded one.
func FromJSON(raw []byte) (*Notebook, error) {
	if message.IsEmptyJSON(raw) {
		return nil, fmt.Errorf("%w: notebook json is empty", ErrInvalidArgument)
	}
	var in notebookJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: notebook json: %v", ErrInvalidArgument, err)
	}

	n := New(in.Name, in.Description)
	if in.Id != "" {
		n.Id = in.Id
	}
	n.Name = in.Name
	n.Linear = in.Linear
	n.CanMoveCells = in.CanMoveCells
	n.CanEditCells = in.CanEditCells
	n.CanResizeCells = in.CanResizeCells
	n.CanDeleteCells = in.CanDeleteCells
	n.CanEditProperties = in.CanEditProperties
	n.CanExecuteCells = in.CanExecuteCells
	n.CanSave = in.CanSave
	n.CanDelete = in.CanDelete
	for _, tag := range in.Tags {
		n.AddTag(tag)
	}

	for i, rawCell := range in.Cells {
		cell, err := CellFromJSON(rawCell)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if _, err := n.AddCell(cell, "", After); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
	}
	n.InitializationCellId = in.InitializationCellId
	return n, nil
}
