package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wrenhealth/careline/internal/model/chat"
	bookingsvc "github.com/wrenhealth/careline/internal/service/booking"
	"github.com/wrenhealth/careline/internal/service/session"
	"github.com/wrenhealth/careline/internal/temporal"
)

type stubGenerator struct {
	answer  string
	err     error
	history []chat.Message
	query   string
	calls   int
}

func (g *stubGenerator) GenerateAnswer(_ context.Context, history []chat.Message, query string) (string, error) {
	g.calls++
	g.history = history
	g.query = query
	return g.answer, g.err
}

func newTestService(answers AnswerGenerator) (*Service, *session.Manager) {
	sessions := session.NewManager()
	machine := bookingsvc.NewMachine(temporal.NewResolver())
	return NewService(sessions, machine, answers), sessions
}

func TestGeneralQuestionFallsThroughToGenerator(t *testing.T) {
	gen := &stubGenerator{answer: "Stay hydrated."}
	svc, sessions := newTestService(gen)
	s := svc.NewSession()

	reply, err := svc.SubmitUtterance(context.Background(), s.Index, "how much water should I drink?")
	if err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}
	if reply.Text != "Stay hydrated." {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
	if reply.Appointment != nil {
		t.Fatal("general answers must not carry an appointment")
	}
	if gen.query != "how much water should I drink?" {
		t.Fatalf("generator got wrong query: %q", gen.query)
	}

	// Idle idempotence: the booking must remain untouched.
	err = sessions.WithSession(s.Index, func(st session.State) error {
		if st.Booking().InProgress {
			t.Fatal("general question must not start a booking")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession err: %v", err)
	}
}

func TestGeneratorReceivesPriorTranscript(t *testing.T) {
	gen := &stubGenerator{answer: "answer"}
	svc, _ := newTestService(gen)
	s := svc.NewSession()

	if _, err := svc.SubmitUtterance(context.Background(), s.Index, "first question"); err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}
	if _, err := svc.SubmitUtterance(context.Background(), s.Index, "second question"); err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}

	// Second call sees the first exchange but not its own query.
	if len(gen.history) != 2 {
		t.Fatalf("unexpected history length: %d", len(gen.history))
	}
	if gen.history[0].Content != "first question" || gen.history[0].Role != chat.RoleUser {
		t.Fatalf("unexpected history head: %+v", gen.history[0])
	}
}

func TestSymptomKeywordReturnsReferral(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	s := svc.NewSession()

	reply, err := svc.SubmitUtterance(context.Background(), s.Index, "I have strange symptoms")
	if err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}
	if !strings.Contains(reply.Text, "healthcare professional") {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
	if gen.calls != 0 {
		t.Fatal("symptom turns must not reach the generator")
	}
}

func TestBookingFlowThroughRouter(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	s := svc.NewSession()
	ctx := context.Background()

	reply, err := svc.SubmitUtterance(ctx, s.Index, "I need an appointment")
	if err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}
	if !strings.Contains(reply.Text, "doctor's name") {
		t.Fatalf("unexpected start prompt: %q", reply.Text)
	}

	steps := []string{"Dr. Smith", "tomorrow", "10 AM"}
	for _, input := range steps {
		if reply, err = svc.SubmitUtterance(ctx, s.Index, input); err != nil {
			t.Fatalf("SubmitUtterance(%q) err: %v", input, err)
		}
	}
	if !strings.Contains(reply.Text, "Confirming: Appointment with Dr. Smith") {
		t.Fatalf("unexpected confirmation prompt: %q", reply.Text)
	}

	reply, err = svc.SubmitUtterance(ctx, s.Index, "confirm")
	if err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}
	if reply.Appointment == nil {
		t.Fatal("expected an appointment record on confirmation")
	}
	if reply.Appointment.Doctor != "Dr. Smith" {
		t.Fatalf("unexpected doctor: %q", reply.Appointment.Doctor)
	}
	if reply.Appointment.StartsAt.Hour() != 10 {
		t.Fatalf("unexpected start: %s", reply.Appointment.StartsAt)
	}
	if gen.calls != 0 {
		t.Fatal("booking turns must not reach the generator")
	}

	// The completing assistant message carries the record.
	messages, err := svc.Transcript(s.Index)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	last := messages[len(messages)-1]
	if last.Role != chat.RoleAssistant || last.Appointment == nil {
		t.Fatalf("expected appointment on final assistant message: %+v", last)
	}
}

func TestBookingTurnsBypassKeywordRouting(t *testing.T) {
	gen := &stubGenerator{}
	svc, _ := newTestService(gen)
	s := svc.NewSession()
	ctx := context.Background()

	if _, err := svc.SubmitUtterance(ctx, s.Index, "book an appointment"); err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}

	// A doctor named with the symptom keyword is still just a doctor name.
	reply, err := svc.SubmitUtterance(ctx, s.Index, "Dr. Symptom")
	if err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}
	if !strings.Contains(reply.Text, "which date") {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
}

func TestSessionIsolationAcrossRouter(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	svc, sessions := newTestService(gen)
	a := svc.NewSession()
	b := svc.NewSession()

	if _, err := svc.SubmitUtterance(context.Background(), a.Index, "appointment please"); err != nil {
		t.Fatalf("SubmitUtterance err: %v", err)
	}

	err := sessions.WithSession(b.Index, func(st session.State) error {
		if st.Booking().InProgress {
			t.Fatal("session B must be idle while session A books")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession err: %v", err)
	}
}

func TestAnswerUnavailableWithoutGenerator(t *testing.T) {
	svc, _ := newTestService(nil)
	s := svc.NewSession()

	_, err := svc.SubmitUtterance(context.Background(), s.Index, "what is a fever?")
	if !errors.Is(err, ErrAnswerUnavailable) {
		t.Fatalf("expected ErrAnswerUnavailable, got %v", err)
	}
}

func TestGeneratorFailurePropagates(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model timeout")}
	svc, _ := newTestService(gen)
	s := svc.NewSession()

	if _, err := svc.SubmitUtterance(context.Background(), s.Index, "what is a fever?"); err == nil {
		t.Fatal("expected generator failure to propagate")
	}
}

func TestSubmitUtteranceOutOfRange(t *testing.T) {
	svc, _ := newTestService(&stubGenerator{})

	_, err := svc.SubmitUtterance(context.Background(), 3, "hello")
	if !errors.Is(err, session.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
