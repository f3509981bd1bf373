package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_PutGetRemove(t *testing.T) {
	c := NewCollection[CustomPuzzle]()
	rev := c.Revision()

	assert.False(t, c.Put(CustomPuzzle{ID: "a", Name: "A"}))
	assert.False(t, c.Put(CustomPuzzle{ID: "b", Name: "B"}))
	assert.True(t, c.Put(CustomPuzzle{ID: "a", Name: "A2"}), "existing id is replaced")
	assert.Greater(t, c.Revision(), rev)

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "A2", list[0].Name, "replacement keeps position")

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	got, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, 1, c.Len())
}

func TestCollection_ReplaceLaterDuplicateWins(t *testing.T) {
	c := NewCollection[CustomPuzzle]()
	c.Replace([]CustomPuzzle{{ID: "x", Name: "first"}, {ID: "y"}, {ID: "x", Name: "second"}})

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, "y", list[1].ID)
}

func TestCollection_ReturnsClones(t *testing.T) {
	c := NewCollection[Template]()
	tpl := NewTemplate("Route", PuzzleIdentity{}, t0)
	tpl.AddCheckpoint("a", t0)
	c.Put(tpl)

	tpl.Checkpoints[0].Name = "outside"
	got, _ := c.Get(tpl.ID)
	assert.Equal(t, "a", got.Checkpoints[0].Name)

	got.Checkpoints[0].Name = "inside"
	again, _ := c.Get(tpl.ID)
	assert.Equal(t, "a", again.Checkpoints[0].Name)
}
