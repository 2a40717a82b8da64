package main

import (
	"fmt"
	"strings"
	"sync"
)

type runtimeStatusSnapshot struct {
	title    string
	mode     Mode
	frame    uint64
	total    uint64
	notes    []DetectedNote
	loops    int
	finished bool
}

type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func (s *runtimeStatusStore) setTitle(title string, total uint64) {
	s.mu.Lock()
	s.title = title
	s.total = total
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setFrame(frame uint64, mode Mode, notes []DetectedNote) {
	s.mu.Lock()
	s.frame = frame
	s.mode = mode
	s.notes = append(s.notes[:0], notes...)
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setLoops(loops int) {
	s.mu.Lock()
	s.loops = loops
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setFinished() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	snap.notes = append([]DetectedNote(nil), s.notes...)
	s.mu.RUnlock()
	return snap
}

// statusLine formats a snapshot for the window status bar.
func (snap runtimeStatusSnapshot) statusLine() string {
	var sb strings.Builder
	if snap.title != "" {
		sb.WriteString(snap.title)
		sb.WriteString("  ")
	}
	fmt.Fprintf(&sb, "[%s] ", snap.mode)
	if snap.total > 0 {
		fmt.Fprintf(&sb, "%d/%d", snap.frame, snap.total)
	} else {
		fmt.Fprintf(&sb, "%d", snap.frame)
	}
	if snap.loops > 0 {
		fmt.Fprintf(&sb, " loop %d", snap.loops)
	}
	if snap.finished {
		sb.WriteString(" end")
	}
	for _, n := range snap.notes {
		sb.WriteByte(' ')
		sb.WriteString(NoteName(n.Note))
	}
	return sb.String()
}

var runtimeStatus = &runtimeStatusStore{}
