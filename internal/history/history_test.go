package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
)

func field(i int) layout.Placeholder {
	return layout.NewText(fmt.Sprintf("ph_%d", i), layout.DefaultName(layout.TypeText, i),
		geometry.Rect{X: float64(i * 10), Y: 0, Width: 100, Height: 40})
}

func commitN(s *Store, n int) {
	doc := s.Current()
	for i := 1; i <= n; i++ {
		doc = doc.Append(field(i))
		s.Commit(doc)
	}
}

func TestFloorIsInitialDocument(t *testing.T) {
	s := New(nil)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Current())
	assert.False(t, s.Undo())
	assert.False(t, s.Redo())
	assert.Equal(t, 0, s.Cursor())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := New(layout.Empty())
			commitN(s, n)
			final := s.Current()

			for i := 0; i < n; i++ {
				require.True(t, s.Undo())
			}
			assert.Empty(t, s.Current())
			assert.False(t, s.Undo(), "floor")

			for i := 0; i < n; i++ {
				require.True(t, s.Redo())
			}
			assert.True(t, final.Equal(s.Current()))
			assert.False(t, s.Redo(), "ceiling")
			assert.Equal(t, n+1, s.Len())
		})
	}
}

func TestCommitAfterUndoTruncatesFuture(t *testing.T) {
	s := New(layout.Empty())
	commitN(s, 5)
	for i := 0; i < 3; i++ {
		s.Undo()
	}
	require.Equal(t, 2, s.Cursor())

	branch := s.Current().Append(field(99))
	s.Commit(branch)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 3, s.Cursor())
	assert.False(t, s.CanRedo())
	assert.False(t, s.Redo())
	assert.True(t, branch.Equal(s.Current()))
}

func TestSnapshotsAreIsolatedFromCallers(t *testing.T) {
	s := New(layout.Empty())
	doc := layout.Document{field(1)}
	s.Commit(doc)

	doc[0].Name = "mutated"
	assert.Equal(t, "Field_1", s.Current()[0].Name)

	cur := s.Current()
	cur[0].X = 9999
	assert.NotEqual(t, 9999.0, s.Current()[0].X)
}

func TestRedoAtTailKeepsLength(t *testing.T) {
	s := New(layout.Empty())
	commitN(s, 3)
	before := s.Len()
	assert.False(t, s.Redo())
	assert.Equal(t, before, s.Len())
	assert.Equal(t, before-1, s.Cursor())
}

func TestResetSeedsLoadedDocument(t *testing.T) {
	s := New(layout.Empty())
	commitN(s, 2)
	s.Reset(layout.Sample())
	assert.Equal(t, 1, s.Len())
	assert.True(t, layout.Sample().Equal(s.Current()))
	assert.False(t, s.CanUndo())
}

func TestGenerationFollowsCursor(t *testing.T) {
	s := New(layout.Empty())
	base := s.Generation()
	s.Commit(layout.Document{field(1)})
	first := s.Generation()
	assert.NotEqual(t, base, first)

	require.True(t, s.Undo())
	assert.Equal(t, base, s.Generation())
	require.True(t, s.Redo())
	assert.Equal(t, first, s.Generation())

	// A branch after undo is a different snapshot even at the same index.
	require.True(t, s.Undo())
	s.Commit(layout.Document{field(2)})
	assert.NotEqual(t, first, s.Generation())

	s.Reset(layout.Empty())
	assert.NotEqual(t, base, s.Generation(), "reset never reuses a generation")
}
