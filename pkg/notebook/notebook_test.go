package notebook

import (
	"fmt"
	"testing"

	"notebook-core/pkg/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, nb *Notebook, cell *Cell, ref string, pos Position) *Cell {
	t.Helper()
	c, err := nb.AddCell(cell, ref, pos)
	require.NoError(t, err)
	return c
}

func TestAddCellOrdering(t *testing.T) {
	nb := New("", "")

	c0 := mustAdd(t, nb, nil, "", After)
	assert.Equal(t, 0, c0.Index())
	assert.Equal(t, 1, nb.Len())
	assert.NotEmpty(t, c0.Id())
	assert.Empty(t, c0.OutputMessages)

	c1 := mustAdd(t, nb, nil, "", After)
	assert.Equal(t, 1, c1.Index())

	c2 := mustAdd(t, nb, nil, c0.Id(), After)
	assert.Equal(t, []string{c0.Id(), c2.Id(), c1.Id()}, nb.IdSequence())

	c3 := mustAdd(t, nb, nil, c0.Id(), Before)
	assert.Equal(t, []string{c3.Id(), c0.Id(), c2.Id(), c1.Id()}, nb.IdSequence())

	c4 := mustAdd(t, nb, nil, c2.Id(), Before)
	assert.Equal(t, []string{c3.Id(), c0.Id(), c4.Id(), c2.Id(), c1.Id()}, nb.IdSequence())
	assert.Equal(t, 2, c4.Index())
}

func TestAddCellAfterThenBefore(t *testing.T) {
	nb := New("", "")
	c0 := mustAdd(t, nb, nil, "", After)
	new1 := mustAdd(t, nb, nil, c0.Id(), After)
	new2 := mustAdd(t, nb, nil, c0.Id(), Before)

	assert.Equal(t, []string{new2.Id(), c0.Id(), new1.Id()}, nb.IdSequence())
}

func TestAddCellDefaultPositionIsAfter(t *testing.T) {
	nb := New("", "")
	c0 := mustAdd(t, nb, nil, "", "")
	c1 := mustAdd(t, nb, nil, "", "")
	c2 := mustAdd(t, nb, nil, c0.Id(), "")
	assert.Equal(t, []string{c0.Id(), c2.Id(), c1.Id()}, nb.IdSequence())
}

func TestAddCellUnknownReference(t *testing.T) {
	nb := New("", "")
	mustAdd(t, nb, nil, "", After)
	before := nb.IdSequence()

	_, err := nb.AddCell(nil, "abc", After)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = nb.AddCell(nil, "abc", Before)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, nb.IdSequence())
}

func TestAddCellRejectsBadInput(t *testing.T) {
	nb := New("", "")
	_, err := nb.AddCell(nil, "", Position("sideways"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = nb.AddCell(&Cell{}, "", After)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, nb.Len())
}

func TestIdsStayUnique(t *testing.T) {
	nb := New("", "")
	var ref string
	for i := 0; i < 25; i++ {
		pos := After
		if i%3 == 0 {
			pos = Before
		}
		c := mustAdd(t, nb, nil, ref, pos)
		if i%2 == 0 {
			ref = c.Id()
		}
	}

	seq := nb.IdSequence()
	assert.Len(t, seq, 25)
	seen := map[string]bool{}
	for _, id := range seq {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewCellValidation(t *testing.T) {
	_, err := NewCell(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var nilText *message.TextMessage
	_, err = NewCell(nilText)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewCell(message.NewTextMessage("in"), message.NewTextMessage("ok"), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	c, err := NewCell(message.NewTextMessage("in"))
	require.NoError(t, err)
	assert.Equal(t, -1, c.Index())
	assert.Nil(t, c.Notebook())
	assert.NotNil(t, c.OutputMessages)
}

func TestCellIdFollowsInput(t *testing.T) {
	in := message.NewTextMessage("in")
	c, err := NewCell(in)
	require.NoError(t, err)
	assert.Equal(t, in.Id, c.Id())

	replacement := message.NewTextMessage("other")
	c.InputMessage = replacement
	assert.Equal(t, replacement.Id, c.Id())
}

func TestAddMessageAndInputOutput(t *testing.T) {
	nb := New("", "")
	in := message.NewTextMessage("in")
	in.SetIsOutput(true)

	c, err := nb.AddMessage(in, "", After)
	require.NoError(t, err)
	assert.False(t, in.IsOutput)
	assert.False(t, nb.CellHasOutput(c.Id()))

	i2 := message.NewTextMessage("question")
	o2 := message.NewErrorMessageFromString("answer")
	c2, err := nb.AddInputOutput(i2, o2, c.Id(), Before)
	require.NoError(t, err)
	assert.Equal(t, []string{i2.Id, in.Id}, nb.IdSequence())
	assert.False(t, i2.IsOutput)
	assert.True(t, o2.IsOutput)
	assert.Same(t, o2, nb.GetOutputMessage(c2.Id()).(*message.ErrorMessage))

	_, err = nb.AddInputOutput(message.NewTextMessage("x"), nil, "", After)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = nb.AddMessage(nil, "", After)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddOutputAppendsAndSetOutputReplaces(t *testing.T) {
	build := func() (*Notebook, string) {
		nb := New("", "")
		c, err := nb.AddMessage(message.NewTextMessage("in"), "", After)
		require.NoError(t, err)
		return nb, c.Id()
	}
	a := message.NewTextMessage("a")
	b := message.NewTextMessage("b")

	nb, id := build()
	_, err := nb.AddOutput(a, id)
	require.NoError(t, err)
	_, err = nb.AddOutput(b, id)
	require.NoError(t, err)
	assert.Equal(t, []message.Message{a, b}, nb.GetOutputMessages(id))
	assert.True(t, a.IsOutput)
	assert.Same(t, a, nb.GetOutputMessage(id))

	nb, id = build()
	_, err = nb.SetOutput(id, a)
	require.NoError(t, err)
	_, err = nb.SetOutput(id, b)
	require.NoError(t, err)
	assert.Equal(t, []message.Message{b}, nb.GetOutputMessages(id))

	_, err = nb.SetOutput(id, a, b)
	require.NoError(t, err)
	assert.Equal(t, []message.Message{a, b}, nb.GetOutputMessages(id))

	_, err = nb.AddOutput(a, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = nb.SetOutput("missing", a)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = nb.SetOutput(id, a, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, []message.Message{a, b}, nb.GetOutputMessages(id))
}

func TestSetInput(t *testing.T) {
	nb := New("", "")
	in := message.NewTextMessage("v1")
	c, err := nb.AddMessage(in, "", After)
	require.NoError(t, err)

	v2 := message.NewCodeMessage("print(1)", "python")
	v2.Id = in.Id
	v2.IsOutput = true
	got, err := nb.SetInput(v2)
	require.NoError(t, err)
	assert.Same(t, c, got)
	assert.Same(t, v2, c.InputMessage.(*message.CodeMessage))
	assert.False(t, v2.IsOutput)

	_, err = nb.SetInput(message.NewTextMessage("unrelated"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupsTolerateUnknownIds(t *testing.T) {
	nb := New("", "")
	mustAdd(t, nb, nil, "", After)

	for _, id := range []string{"", "abc"} {
		assert.Nil(t, nb.GetCellById(id))
		assert.False(t, nb.CellIdExists(id))
		assert.False(t, nb.CellHasOutput(id))
		assert.Nil(t, nb.GetOutputMessages(id))
		assert.Nil(t, nb.GetOutputMessage(id))
		assert.Equal(t, "", nb.GetNextCellId(id))
		assert.Equal(t, "", nb.GetPreviousCellId(id))
		assert.Equal(t, -1, nb.IndexOf(id))
	}
}

func TestNavigation(t *testing.T) {
	nb := New("", "")
	i1 := message.NewTextMessage("in 1")
	i2 := message.NewTextMessage("in 2")
	_, err := nb.AddInputOutput(i1, message.NewTextMessage("out 1"), "", After)
	require.NoError(t, err)
	_, err = nb.AddInputOutput(i2, message.NewTextMessage("out 2"), "", After)
	require.NoError(t, err)

	assert.Equal(t, "", nb.GetPreviousCellId(i1.Id))
	assert.Equal(t, i2.Id, nb.GetNextCellId(i1.Id))
	assert.Equal(t, i1.Id, nb.GetPreviousCellId(i2.Id))
	assert.Equal(t, "", nb.GetNextCellId(i2.Id))
}

func TestClearAndDelete(t *testing.T) {
	nb := New("", "")
	in := message.NewTextMessage("in")
	out := message.NewTextMessage("out")
	c0, err := nb.AddMessage(in, "", After)
	require.NoError(t, err)
	_, err = nb.SetOutput(c0.Id(), out)
	require.NoError(t, err)

	nb.ClearOutput(c0.Id())
	assert.Equal(t, 1, nb.Len())
	assert.Empty(t, c0.OutputMessages)
	assert.Equal(t, in.Id, c0.Id())

	nb.ClearOutput("unknown")

	nb.DeleteCell(c0.Id())
	assert.Equal(t, 0, nb.Len())
	assert.Nil(t, nb.GetCellById(c0.Id()))
	assert.Equal(t, -1, c0.Index())

	nb.DeleteCell(c0.Id())
	assert.Equal(t, 0, nb.Len())
}

func TestDeleteCellShrinksByOne(t *testing.T) {
	nb := New("", "")
	var cells []*Cell
	for i := 0; i < 4; i++ {
		cells = append(cells, mustAdd(t, nb, nil, "", After))
	}
	nb.DeleteCell(cells[1].Id())
	assert.Equal(t, []string{cells[0].Id(), cells[2].Id(), cells[3].Id()}, nb.IdSequence())
	assert.Equal(t, 1, cells[2].Index())
}

func TestClearOutputs(t *testing.T) {
	nb := New("", "")
	for i := 0; i < 3; i++ {
		_, err := nb.AddInputOutput(message.NewTextMessage("in"), message.NewTextMessage("out"), "", After)
		require.NoError(t, err)
	}
	nb.ClearOutputs()
	for _, c := range nb.Cells() {
		assert.False(t, c.HasOutput())
	}
	assert.Equal(t, 3, nb.Len())
}

func TestDeleteOutputMessage(t *testing.T) {
	nb := New("", "")
	a := message.NewTextMessage("a")
	b := message.NewTextMessage("b")
	c, err := nb.AddMessage(message.NewTextMessage("in"), "", After)
	require.NoError(t, err)
	_, err = nb.SetOutput(c.Id(), a, b)
	require.NoError(t, err)

	err = nb.DeleteOutputMessage(c.Id(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []message.Message{a, b}, c.OutputMessages)

	err = nb.DeleteOutputMessage("nope", a.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, nb.DeleteOutputMessage(c.Id(), a.Id))
	assert.Equal(t, []message.Message{b}, c.OutputMessages)
	assert.Equal(t, 1, nb.Len())
}

func TestMoveCell(t *testing.T) {
	nb := New("", "")
	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, mustAdd(t, nb, nil, "", After).Id())
	}

	_, err := nb.MoveCell(ids[3], ids[0], Before)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[3], ids[0], ids[1], ids[2]}, nb.IdSequence())

	_, err = nb.MoveCell(ids[3], ids[2], After)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0], ids[1], ids[2], ids[3]}, nb.IdSequence())

	moved, err := nb.MoveCell(ids[0], ids[1], After)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[1], ids[0], ids[2], ids[3]}, nb.IdSequence())
	assert.Equal(t, 1, moved.Index())

	before := nb.IdSequence()
	_, err = nb.MoveCell("nope", ids[0], After)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = nb.MoveCell(ids[0], "nope", After)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = nb.MoveCell(ids[0], ids[0], After)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, before, nb.IdSequence())
}

func TestInitializationCell(t *testing.T) {
	nb := New("", "")
	c := mustAdd(t, nb, nil, "", After)

	assert.ErrorIs(t, nb.SetInitializationCell("nope"), ErrNotFound)
	require.NoError(t, nb.SetInitializationCell(c.Id()))
	assert.Same(t, c, nb.InitializationCell())

	nb.DeleteCell(c.Id())
	assert.Equal(t, "", nb.InitializationCellId)
	assert.Nil(t, nb.InitializationCell())
}

func TestTags(t *testing.T) {
	nb := New("", "")
	nb.AddTag("graph")
	nb.AddTag("draft")
	nb.AddTag("graph")
	nb.AddTag("")
	assert.Equal(t, []string{"graph", "draft"}, nb.Tags())

	nb.RemoveTag("graph")
	assert.False(t, nb.HasTag("graph"))
	assert.Equal(t, []string{"draft"}, nb.Tags())
}

func TestCellsReturnsCopy(t *testing.T) {
	nb := New("", "")
	a := mustAdd(t, nb, nil, "", After)
	b := mustAdd(t, nb, nil, "", After)

	cells := nb.Cells()
	cells[0], cells[1] = cells[1], cells[0]
	assert.Equal(t, []string{a.Id(), b.Id()}, nb.IdSequence())
}

func TestNewDefaults(t *testing.T) {
	nb := New("", "")
	assert.Equal(t, DefaultName, nb.Name)
	assert.True(t, nb.Linear)
	assert.True(t, nb.CanSave && nb.CanDelete && nb.CanMoveCells && nb.CanDeleteCells)
	assert.NotEmpty(t, nb.Id)

	named := New("Movies", "exploring the movie graph")
	assert.Equal(t, "Movies", named.Name)
	assert.Equal(t, "exploring the movie graph", named.Description)
}

func ExampleNotebook_AddCell() {
	nb := New("Demo", "")
	nb.AddMessage(message.NewTextMessage("first"), "", After)
	second, _ := nb.AddMessage(message.NewTextMessage("second"), "", After)
	nb.AddMessage(message.NewTextMessage("between"), second.Id(), Before)

	for _, c := range nb.Cells() {
		fmt.Println(c.Index(), c.InputMessage.(*message.TextMessage).Text)
	}
	// Output:
	// 0 first
	// 1 between
	// 2 second
}

func TestAddInputOutputRejectsSameMessage(t *testing.T) {
	nb := New("", "")
	m := message.NewTextMessage("echo")

	_, err := nb.AddInputOutput(m, m, "", After)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.False(t, m.GetIsOutput())
	assert.Equal(t, 0, nb.Len())
}
