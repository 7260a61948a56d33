// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geometry

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownGesture is returned for gesture ids that are not active.
var ErrUnknownGesture = errors.New("unknown or finished gesture")

// Tracker holds gestures that are in flight, keyed by an opaque id.
//
// Every registration is released exactly once: by Finish, by Cancel, or by
// ReleaseOwner when the owning page goes away mid-gesture.
type Tracker struct {
	mu     sync.Mutex
	active map[string]*tracked
}

type tracked struct {
	owner   string
	target  string
	gesture *Gesture
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]*tracked)}
}

// Begin registers g under owner (a page id) and target (an overlay ref) and
// returns the gesture id.
func (t *Tracker) Begin(owner, target string, g *Gesture) string {
	id := uuid.New().String()
	t.mu.Lock()
	t.active[id] = &tracked{owner: owner, target: target, gesture: g}
	t.mu.Unlock()
	return id
}

// Move feeds a pointer position to an active gesture.
func (t *Tracker) Move(id string, pointer Point) (Rect, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, ok := t.active[id]
	if !ok {
		return Rect{}, ErrUnknownGesture
	}
	return tr.gesture.Update(pointer), nil
}

// Finish removes the gesture and returns it with its owner and target so the
// caller can commit the result.
func (t *Tracker) Finish(id string) (g *Gesture, owner, target string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, ok := t.active[id]
	if !ok {
		return nil, "", "", ErrUnknownGesture
	}
	delete(t.active, id)
	return tr.gesture, tr.owner, tr.target, nil
}

// Cancel drops a gesture without committing anything.
func (t *Tracker) Cancel(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[id]
	delete(t.active, id)
	return ok
}

// ReleaseOwner drops every gesture registered for owner and reports how many
// were released.
func (t *Tracker) ReleaseOwner(owner string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, tr := range t.active {
		if tr.owner == owner {
			delete(t.active, id)
			n++
		}
	}
	return n
}

// Len returns the number of gestures in flight.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}
