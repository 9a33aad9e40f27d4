package notebook

import (
	"fmt"
	"reflect"

	"notebook-core/pkg/message"
)

const (
	TypeNotebook = "Notebook"

	DefaultName = "New Notebook"
)

// Position says on which side of a reference cell a new cell goes.
type Position string

const (
	After  Position = "after"
	Before Position = "before"
)

// Notebook is an ordered sequence of cells. The order is the reading and
// execution order and is only ever changed by the methods below.
type Notebook struct {
	Id          string
	Name        string
	Description string
	Linear      bool

	CanSave           bool
	CanDelete         bool
	CanEditProperties bool
	CanMoveCells      bool
	CanEditCells      bool
	CanResizeCells    bool
	CanExecuteCells   bool
	CanDeleteCells    bool

	InitializationCellId string

	tags  []string
	cells []*Cell
}

// New creates an empty notebook. An empty name falls back to DefaultName.
func New(name, description string) *Notebook {
	if name == "" {
		name = DefaultName
	}
	return &Notebook{
		Id:                message.NewId(),
		Name:              name,
		Description:       description,
		Linear:            true,
		CanSave:           true,
		CanDelete:         true,
		CanEditProperties: true,
		CanMoveCells:      true,
		CanEditCells:      true,
		CanResizeCells:    true,
		CanExecuteCells:   true,
		CanDeleteCells:    true,
		tags:              []string{},
		cells:             []*Cell{},
	}
}

// AddCell inserts cell next to the cell with id referenceCellId. Without a
// reference the cell is appended; without a cell an empty one is created.
// Every other inserting method goes through here.
func (n *Notebook) AddCell(cell *Cell, referenceCellId string, position Position) (*Cell, error) {
	if position == "" {
		position = After
	}
	if position != After && position != Before {
		return nil, fmt.Errorf("%w: position %q", ErrInvalidArgument, position)
	}
	if cell == nil {
		cell = EmptyCell()
	} else if isNil(cell.InputMessage) {
		return nil, fmt.Errorf("%w: cell requires an input message", ErrInvalidArgument)
	}

	if referenceCellId == "" {
		n.cells = append(n.cells, cell)
		cell.notebook = n
		return cell, nil
	}

	ref := n.IndexOf(referenceCellId)
	if ref < 0 {
		return nil, fmt.Errorf("%w: cannot find a cell with id %s", ErrNotFound, referenceCellId)
	}
	at := ref
	if position == After {
		at = ref + 1
	}
	n.insertAt(at, cell)
	return cell, nil
}

// AddMessage wraps msg as the input of a new cell without outputs.
func (n *Notebook) AddMessage(msg message.Message, referenceCellId string, position Position) (*Cell, error) {
	if isNil(msg) {
		return nil, fmt.Errorf("%w: message is nil", ErrInvalidArgument)
	}
	msg.SetIsOutput(false)
	cell, err := NewCell(msg)
	if err != nil {
		return nil, err
	}
	return n.AddCell(cell, referenceCellId, position)
}

// AddInputOutput adds one cell holding input and its single output.
// The same message cannot be both.
func (n *Notebook) AddInputOutput(input, output message.Message, referenceCellId string, position Position) (*Cell, error) {
	if !isNil(input) && input == output {
		return nil, fmt.Errorf("%w: message %s cannot be its own output", ErrInvalidArgument, input.GetId())
	}
	cell, err := NewCell(input, output)
	if err != nil {
		return nil, err
	}
	input.SetIsOutput(false)
	output.SetIsOutput(true)
	return n.AddCell(cell, referenceCellId, position)
}

// AddOutput appends msg to the outputs of the cell.
func (n *Notebook) AddOutput(msg message.Message, cellId string) (*Cell, error) {
	if isNil(msg) {
		return nil, fmt.Errorf("%w: message is nil", ErrInvalidArgument)
	}
	cell := n.GetCellById(cellId)
	if cell == nil {
		return nil, fmt.Errorf("%w: cell %s", ErrNotFound, cellId)
	}
	msg.SetIsOutput(true)
	cell.OutputMessages = append(cell.OutputMessages, msg)
	return cell, nil
}

// SetOutput replaces all outputs of the cell with msgs.
func (n *Notebook) SetOutput(cellId string, msgs ...message.Message) (*Cell, error) {
	cell := n.GetCellById(cellId)
	if cell == nil {
		return nil, fmt.Errorf("%w: cell %s", ErrNotFound, cellId)
	}
	list := make([]message.Message, 0, len(msgs))
	for i, m := range msgs {
		if isNil(m) {
			return nil, fmt.Errorf("%w: output message %d is nil", ErrInvalidArgument, i)
		}
		list = append(list, m)
	}
	for _, m := range list {
		m.SetIsOutput(true)
	}
	cell.OutputMessages = list
	return cell, nil
}

// SetInput replaces the input of the cell that has the same id as msg.
func (n *Notebook) SetInput(msg message.Message) (*Cell, error) {
	if isNil(msg) {
		return nil, fmt.Errorf("%w: message is nil", ErrInvalidArgument)
	}
	cell := n.GetCellById(msg.GetId())
	if cell == nil {
		return nil, fmt.Errorf("%w: cell %s", ErrNotFound, msg.GetId())
	}
	msg.SetIsOutput(false)
	cell.InputMessage = msg
	return cell, nil
}

// MoveCell relocates an existing cell next to another one.
func (n *Notebook) MoveCell(cellId, referenceCellId string, position Position) (*Cell, error) {
	if position == "" {
		position = After
	}
	if position != After && position != Before {
		return nil, fmt.Errorf("%w: position %q", ErrInvalidArgument, position)
	}
	if cellId == referenceCellId {
		return nil, fmt.Errorf("%w: cannot move cell %s relative to itself", ErrInvalidArgument, cellId)
	}
	from := n.IndexOf(cellId)
	if from < 0 {
		return nil, fmt.Errorf("%w: cell %s", ErrNotFound, cellId)
	}
	if !n.CellIdExists(referenceCellId) {
		return nil, fmt.Errorf("%w: cannot find a cell with id %s", ErrNotFound, referenceCellId)
	}

	cell := n.cells[from]
	n.cells = append(n.cells[:from], n.cells[from+1:]...)
	at := n.IndexOf(referenceCellId)
	if position == After {
		at++
	}
	n.insertAt(at, cell)
	return cell, nil
}

func (n *Notebook) GetCellById(id string) *Cell {
	if i := n.IndexOf(id); i >= 0 {
		return n.cells[i]
	}
	return nil
}

func (n *Notebook) CellIdExists(id string) bool {
	return n.IndexOf(id) >= 0
}

func (n *Notebook) CellHasOutput(id string) bool {
	cell := n.GetCellById(id)
	return cell != nil && cell.HasOutput()
}

// GetOutputMessages returns the outputs of the cell, nil for an unknown id.
func (n *Notebook) GetOutputMessages(id string) []message.Message {
	cell := n.GetCellById(id)
	if cell == nil {
		return nil
	}
	return cell.OutputMessages
}

// GetOutputMessage returns the first output of the cell.
func (n *Notebook) GetOutputMessage(id string) message.Message {
	cell := n.GetCellById(id)
	if cell == nil {
		return nil
	}
	return cell.OutputMessage()
}

// GetNextCellId returns the id of the cell following id, "" at the end or
// for an unknown id.
func (n *Notebook) GetNextCellId(id string) string {
	i := n.IndexOf(id)
	if i < 0 || i == len(n.cells)-1 {
		return ""
	}
	return n.cells[i+1].Id()
}

// GetPreviousCellId returns the id of the cell before id, "" at the start or
// for an unknown id.
func (n *Notebook) GetPreviousCellId(id string) string {
	i := n.IndexOf(id)
	if i <= 0 {
		return ""
	}
	return n.cells[i-1].Id()
}

// ClearOutput empties the outputs of one cell. Unknown ids are ignored.
func (n *Notebook) ClearOutput(id string) {
	if cell := n.GetCellById(id); cell != nil {
		cell.OutputMessages = []message.Message{}
	}
}

func (n *Notebook) ClearOutputs() {
	for _, cell := range n.cells {
		cell.OutputMessages = []message.Message{}
	}
}

// DeleteOutputMessage removes a single output message from a cell.
func (n *Notebook) DeleteOutputMessage(cellId, messageId string) error {
	cell := n.GetCellById(cellId)
	if cell == nil {
		return fmt.Errorf("%w: cell %s", ErrNotFound, cellId)
	}
	i := cell.outputIndex(messageId)
	if i < 0 {
		return fmt.Errorf("%w: output message %s in cell %s", ErrNotFound, messageId, cellId)
	}
	outputs := make([]message.Message, 0, len(cell.OutputMessages)-1)
	outputs = append(outputs, cell.OutputMessages[:i]...)
	outputs = append(outputs, cell.OutputMessages[i+1:]...)
	cell.OutputMessages = outputs
	return nil
}

// DeleteCell removes the cell with its input and all outputs. Unknown ids
// are ignored.
func (n *Notebook) DeleteCell(id string) {
	i := n.IndexOf(id)
	if i < 0 {
		return
	}
	cell := n.cells[i]
	n.cells = append(n.cells[:i], n.cells[i+1:]...)
	cell.notebook = nil
	if n.InitializationCellId == id {
		n.InitializationCellId = ""
	}
}

// SetInitializationCell marks the cell that runs first. An empty id clears
// the mark.
func (n *Notebook) SetInitializationCell(id string) error {
	if id != "" && !n.CellIdExists(id) {
		return fmt.Errorf("%w: cell %s", ErrNotFound, id)
	}
	n.InitializationCellId = id
	return nil
}

func (n *Notebook) InitializationCell() *Cell {
	return n.GetCellById(n.InitializationCellId)
}

// IdSequence lists the cell ids in order.
func (n *Notebook) IdSequence() []string {
	ids := make([]string, len(n.cells))
	for i, c := range n.cells {
		ids[i] = c.Id()
	}
	return ids
}

// Cells returns a copy of the sequence. Reordering the copy does not affect
// the notebook.
func (n *Notebook) Cells() []*Cell {
	out := make([]*Cell, len(n.cells))
	copy(out, n.cells)
	return out
}

func (n *Notebook) Len() int {
	return len(n.cells)
}

// IndexOf returns the position of the cell with the given id, -1 if absent.
func (n *Notebook) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range n.cells {
		if c.Id() == id {
			return i
		}
	}
	return -1
}

func (n *Notebook) indexOfCell(cell *Cell) int {
	for i, c := range n.cells {
		if c == cell {
			return i
		}
	}
	return -1
}

func (n *Notebook) insertAt(at int, cell *Cell) {
	n.cells = append(n.cells, nil)
	copy(n.cells[at+1:], n.cells[at:])
	n.cells[at] = cell
	cell.notebook = n
}

// AddTag adds tag unless it is already present.
func (n *Notebook) AddTag(tag string) {
	if tag == "" || n.HasTag(tag) {
		return
	}
	n.tags = append(n.tags, tag)
}

func (n *Notebook) RemoveTag(tag string) {
	for i, t := range n.tags {
		if t == tag {
			n.tags = append(n.tags[:i], n.tags[i+1:]...)
			return
		}
	}
}

func (n *Notebook) HasTag(tag string) bool {
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns the tags in insertion order.
func (n *Notebook) Tags() []string {
	out := make([]string, len(n.tags))
	copy(out, n.tags)
	return out
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
