// Package history is the linear undo stack of layout snapshots.
//
// The store keeps every committed document plus a cursor; the current
// document is always derived from the snapshot at the cursor. Undo and
// redo only move the cursor. Commit truncates everything ahead of the
// cursor before appending, so a new edit after undo discards the redo
// branch.
package history

import "github.com/credify/editor/internal/layout"

type Store struct {
	snapshots []layout.Document
	gens      []uint64
	cursor    int
	next      uint64
}

// New returns a store whose floor (index 0) is initial.
func New(initial layout.Document) *Store {
	s := &Store{}
	s.Reset(initial)
	return s
}

// Reset drops all history and seeds index 0 with initial.
func (s *Store) Reset(initial layout.Document) {
	if initial == nil {
		initial = layout.Empty()
	}
	s.snapshots = []layout.Document{initial.Clone()}
	s.gens = []uint64{s.nextGen()}
	s.cursor = 0
}

// Commit truncates snapshots after the cursor, appends doc and moves the
// cursor to it.
func (s *Store) Commit(doc layout.Document) {
	if doc == nil {
		doc = layout.Empty()
	}
	s.snapshots = append(s.snapshots[:s.cursor+1:s.cursor+1], doc.Clone())
	s.gens = append(s.gens[:s.cursor+1:s.cursor+1], s.nextGen())
	s.cursor = len(s.snapshots) - 1
}

func (s *Store) nextGen() uint64 {
	s.next++
	return s.next
}

// Generation identifies the snapshot at the cursor. Every snapshot gets a
// value no other snapshot of this store has had, across resets, so two
// cursors show the same document only if their generations match.
func (s *Store) Generation() uint64 { return s.gens[s.cursor] }

// Undo steps back one snapshot. It reports false at the floor.
func (s *Store) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	return true
}

// Redo steps forward one snapshot. It reports false at the tail.
func (s *Store) Redo() bool {
	if s.cursor >= len(s.snapshots)-1 {
		return false
	}
	s.cursor++
	return true
}

// Current returns a copy of the document at the cursor.
func (s *Store) Current() layout.Document {
	return s.snapshots[s.cursor].Clone()
}

func (s *Store) CanUndo() bool { return s.cursor > 0 }
func (s *Store) CanRedo() bool { return s.cursor < len(s.snapshots)-1 }
func (s *Store) Len() int      { return len(s.snapshots) }
func (s *Store) Cursor() int   { return s.cursor }
