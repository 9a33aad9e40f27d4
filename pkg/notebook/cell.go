package notebook

import (
	"fmt"

	"notebook-core/pkg/message"
)

const (
	TypeCell = "NotebookCell"

	DefaultCellWidth  = 600
	DefaultCellHeight = 200
	DefaultCellMode   = "edit"
)

// Cell pairs one input message with its ordered outputs. Its identity is the
// identity of the input message.
type Cell struct {
	InputMessage   message.Message
	OutputMessages []message.Message

	X      float64
	Y      float64
	Width  float64
	Height float64
	Title  string
	Mode   string

	CanResize  bool
	CanMove    bool
	CanEdit    bool
	CanDelete  bool
	CanExecute bool

	// lookup only, never used to mutate the sequence
	notebook *Notebook
}

// NewCell wraps input and outputs. Neither the input nor any output may be nil.
func NewCell(input message.Message, outputs ...message.Message) (*Cell, error) {
	if isNil(input) {
		return nil, fmt.Errorf("%w: cell requires an input message", ErrInvalidArgument)
	}
	list := make([]message.Message, 0, len(outputs))
	for i, out := range outputs {
		if isNil(out) {
			return nil, fmt.Errorf("%w: output message %d is nil", ErrInvalidArgument, i)
		}
		list = append(list, out)
	}

	return &Cell{
		InputMessage:   input,
		OutputMessages: list,
		Width:          DefaultCellWidth,
		Height:         DefaultCellHeight,
		Mode:           DefaultCellMode,
		CanResize:      true,
		CanMove:        true,
		CanEdit:        true,
		CanDelete:      true,
		CanExecute:     true,
	}, nil
}

// EmptyCell is a cell with an empty code input and no outputs.
func EmptyCell() *Cell {
	c, _ := NewCell(message.NewCodeMessage("", ""))
	return c
}

// Id is the id of the input message.
func (c *Cell) Id() string {
	if c == nil || isNil(c.InputMessage) {
		return ""
	}
	return c.InputMessage.GetId()
}

// Index is the position of the cell in its notebook, -1 when detached.
func (c *Cell) Index() int {
	if c.notebook == nil {
		return -1
	}
	return c.notebook.indexOfCell(c)
}

// Notebook returns the notebook the cell belongs to, nil when detached.
func (c *Cell) Notebook() *Notebook {
	return c.notebook
}

func (c *Cell) HasOutput() bool {
	return len(c.OutputMessages) > 0
}

// OutputMessage is the first output, nil when there is none.
func (c *Cell) OutputMessage() message.Message {
	if len(c.OutputMessages) == 0 {
		return nil
	}
	return c.OutputMessages[0]
}

func (c *Cell) outputIndex(messageId string) int {
	for i, m := range c.OutputMessages {
		if m.GetId() == messageId {
			return i
		}
	}
	return -1
}
