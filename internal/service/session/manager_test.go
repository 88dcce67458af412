package session

import (
	"errors"
	"testing"

	"github.com/wrenhealth/careline/internal/model/chat"
)

func TestCreateMakesSessionActive(t *testing.T) {
	m := NewManager()

	first := m.Create()
	if first.Index != 0 {
		t.Fatalf("unexpected first index: %d", first.Index)
	}
	second := m.Create()
	if second.Index != 1 {
		t.Fatalf("unexpected second index: %d", second.Index)
	}
	if m.Active() != 1 {
		t.Fatalf("expected new session to be active, got %d", m.Active())
	}
}

func TestSelectOutOfRange(t *testing.T) {
	m := NewManager()
	m.Create()

	if err := m.Select(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := m.Select(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for negative index, got %v", err)
	}
	if err := m.Select(0); err != nil {
		t.Fatalf("Select err: %v", err)
	}
}

func TestAppendAndTranscript(t *testing.T) {
	m := NewManager()
	s := m.Create()

	stored, err := m.Append(s.Index, chat.Message{Role: chat.RoleUser, Content: "hello"})
	if err != nil {
		t.Fatalf("Append err: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected an assigned message ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("expected an assigned timestamp")
	}

	messages, err := m.Transcript(s.Index)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(messages) != 1 || messages[0].Content != "hello" {
		t.Fatalf("unexpected transcript: %+v", messages)
	}

	if _, err := m.Append(42, chat.Message{Content: "lost"}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestSummariesPreviewTruncation(t *testing.T) {
	m := NewManager()
	s := m.Create()

	long := "this message is well over thirty runes long for sure"
	if _, err := m.Append(s.Index, chat.Message{Role: chat.RoleUser, Content: long}); err != nil {
		t.Fatalf("Append err: %v", err)
	}

	summaries := m.Summaries()
	if len(summaries) != 1 {
		t.Fatalf("unexpected summary count: %d", len(summaries))
	}
	want := "this message is well over thir..."
	if summaries[0].Preview != want {
		t.Fatalf("unexpected preview: got %q want %q", summaries[0].Preview, want)
	}
	if summaries[0].MessageCount != 1 {
		t.Fatalf("unexpected message count: %d", summaries[0].MessageCount)
	}
}

func TestSessionIsolation(t *testing.T) {
	m := NewManager()
	a := m.Create()
	b := m.Create()

	err := m.WithSession(a.Index, func(st State) error {
		st.Booking().InProgress = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession err: %v", err)
	}

	err = m.WithSession(b.Index, func(st State) error {
		if st.Booking().InProgress {
			t.Fatal("session B booking must be untouched by session A")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession err: %v", err)
	}
}

func TestWithSessionOutOfRange(t *testing.T) {
	m := NewManager()

	err := m.WithSession(0, func(State) error { return nil })
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
