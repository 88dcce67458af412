// Package session owns the ordered list of conversations and the pointer
// to the active one. Sessions live for the process lifetime; there is no
// eviction.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wrenhealth/careline/internal/model/booking"
	"github.com/wrenhealth/careline/internal/model/chat"
)

// ErrOutOfRange rejects operations addressing a session index that was
// never created.
var ErrOutOfRange = errors.New("session index out of range")

const previewRunes = 30

// entry bundles one session's transcript and booking behind its own
// lock, so independent sessions never serialize against each other.
type entry struct {
	mu       sync.Mutex
	session  chat.Session
	messages []chat.Message
	booking  booking.Booking
}

// Manager maintains the session list. The manager lock guards only the
// list and the active pointer; per-session state is guarded per entry.
type Manager struct {
	mu      sync.RWMutex
	entries []*entry
	active  int
}

// NewManager starts empty; callers create the first session explicitly.
func NewManager() *Manager {
	return &Manager{}
}

// Create appends a new empty session, makes it active and returns it.
func (m *Manager) Create() chat.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := chat.Session{
		Index:     len(m.entries),
		CreatedAt: time.Now().UTC(),
	}
	m.entries = append(m.entries, &entry{
		session:  session,
		messages: make([]chat.Message, 0, 16),
	})
	m.active = session.Index
	return session
}

// Select moves the active pointer. No session state is touched.
func (m *Manager) Select(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.entries) {
		return ErrOutOfRange
	}
	m.active = index
	return nil
}

// Active returns the index of the currently selected session.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Count reports how many sessions exist.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Summaries lists every session with a preview of its latest message.
// The manager lock is released before touching per-session state, so a
// slow in-flight turn on one session cannot stall session creation.
func (m *Manager) Summaries() []chat.Summary {
	m.mu.RLock()
	entries := make([]*entry, len(m.entries))
	copy(entries, m.entries)
	m.mu.RUnlock()

	summaries := make([]chat.Summary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		summary := chat.Summary{
			Index:        e.session.Index,
			MessageCount: len(e.messages),
		}
		if len(e.messages) > 0 {
			summary.Preview = preview(e.messages[len(e.messages)-1].Content)
		}
		e.mu.Unlock()
		summaries = append(summaries, summary)
	}
	return summaries
}

// Append records one turn on the addressed session's transcript and
// returns the stored message with its assigned ID.
func (m *Manager) Append(index int, message chat.Message) (chat.Message, error) {
	e, err := m.lookup(index)
	if err != nil {
		return chat.Message{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.append(message), nil
}

// Transcript returns a copy of the addressed session's messages.
func (m *Manager) Transcript(index int) ([]chat.Message, error) {
	e, err := m.lookup(index)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	copied := make([]chat.Message, len(e.messages))
	copy(copied, e.messages)
	return copied, nil
}

// State is the view of one session handed to WithSession callbacks.
type State struct {
	entry *entry
}

// Booking exposes the session's booking for the state machine to mutate.
func (s State) Booking() *booking.Booking {
	return &s.entry.booking
}

// Transcript returns a copy of the messages recorded so far.
func (s State) Transcript() []chat.Message {
	copied := make([]chat.Message, len(s.entry.messages))
	copy(copied, s.entry.messages)
	return copied
}

// Append records a turn and returns the stored message.
func (s State) Append(message chat.Message) chat.Message {
	return s.entry.append(message)
}

// WithSession runs fn while holding the addressed session's lock, so one
// utterance is fully processed before the next mutates the same booking.
// Other sessions stay available for the duration.
func (m *Manager) WithSession(index int, fn func(State) error) error {
	e, err := m.lookup(index)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(State{entry: e})
}

func (m *Manager) lookup(index int) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index < 0 || index >= len(m.entries) {
		return nil, ErrOutOfRange
	}
	return m.entries[index], nil
}

// append assumes the entry lock is held.
func (e *entry) append(message chat.Message) chat.Message {
	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	e.messages = append(e.messages, message)
	return message
}

// preview mirrors the sidebar truncation: the first 30 runes of the
// latest message followed by an ellipsis.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes) + "..."
}
