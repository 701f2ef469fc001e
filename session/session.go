/*
Package session tracks an evolving tree through a chain of functional
edits.

A session owns the current tree version, serializes edits, and broadcasts
every new version to subscribers. It also pins the whole version history:
the back-references between tree versions are non-owning, so without an
owner an old version may be collected and fingers into it would lose their
derivation path. A session is that owner.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/guiguan/caster"
	"github.com/npillmayer/arbor"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'arbor.session'.
func tracer() tracing.Trace {
	return tracing.Select("arbor.session")
}

// Session is a serialized editor for one tree. All methods are safe for
// concurrent use.
type Session struct {
	mu      sync.Mutex
	current *arbor.Node
	history []*arbor.Node
	cast    *caster.Caster // broadcaster for new tree versions
}

// Edit is a functional edit step: it receives the current tree version and
// returns its successor.
type Edit func(*arbor.Node) (*arbor.Node, error)

// New starts a session at an initial tree version.
func New(root *arbor.Node) (*Session, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", arbor.ErrIllegalArguments)
	}
	return &Session{
		current: root,
		history: []*arbor.Node{root},
		cast:    caster.New(nil),
	}, nil
}

// Root returns the current tree version.
func (s *Session) Root() *arbor.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// History returns all tree versions seen by the session, oldest first.
func (s *Session) History() []*arbor.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*arbor.Node(nil), s.history...)
}

// Apply runs an edit on the current version and makes its result the new
// current version. The new version is broadcast to subscribers; slow
// subscribers may miss intermediate versions but can always catch up
// through Root. An edit returning the unchanged tree is a no-op.
func (s *Session) Apply(edit Edit) (*arbor.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := edit(s.current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, fmt.Errorf("%w: edit returned no tree", arbor.ErrIllegalArguments)
	}
	if next == s.current {
		return next, nil
	}
	tracer().Debugf("session: new tree version %s", next)
	s.current = next
	s.history = append(s.history, next)
	s.cast.TryPub(next)
	return next, nil
}

// Subscribe returns a channel of future tree versions. The channel is
// closed when ctx is canceled or the session is closed. capacity is the
// channel buffer; versions published while the buffer is full are dropped
// for this subscriber.
func (s *Session) Subscribe(ctx context.Context, capacity uint) (<-chan *arbor.Node, bool) {
	ch, ok := s.cast.Sub(ctx, capacity)
	if !ok {
		return nil, false
	}
	out := make(chan *arbor.Node, capacity)
	go func() {
		defer close(out)
		for m := range ch {
			if root, isNode := m.(*arbor.Node); isNode {
				out <- root
			}
		}
	}()
	return out, true
}

// Relocate translates a finger into the current tree version. The finger
// may be anchored at any version the session has seen.
func (s *Session) Relocate(f *arbor.Finger) (*arbor.Finger, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil finger", arbor.ErrIllegalArguments)
	}
	return f.Translate(s.Root())
}

// Close shuts down the broadcaster. The session's trees stay usable.
func (s *Session) Close() {
	s.cast.Close()
}
