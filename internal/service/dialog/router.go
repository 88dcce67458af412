// Package dialog is the top-level dispatcher: one user utterance in, one
// assistant reply (plus an appointment record when a booking completes)
// out.
package dialog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wrenhealth/careline/internal/analysis/intent"
	"github.com/wrenhealth/careline/internal/model/booking"
	"github.com/wrenhealth/careline/internal/model/chat"
	"github.com/wrenhealth/careline/internal/observability"
	bookingsvc "github.com/wrenhealth/careline/internal/service/booking"
	"github.com/wrenhealth/careline/internal/service/session"
)

const symptomReply = "I recommend consulting a healthcare professional. Would you like me to help find a nearby clinic?"

// Disclaimer accompanies the service metadata; every presentation layer
// is expected to show it.
const Disclaimer = "This medical chatbot provides information for reference purposes only and is not a substitute for professional medical advice."

// ErrAnswerUnavailable is returned for general questions when no chat
// model is configured. Booking and symptom turns still work without one.
var ErrAnswerUnavailable = errors.New("answer generation unavailable")

// AnswerGenerator yields one completed answer for a transcript plus query.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, history []chat.Message, query string) (string, error)
}

// Reply is the outcome of one submitted utterance.
type Reply struct {
	Text        string               `json:"reply"`
	Appointment *booking.Appointment `json:"appointment,omitempty"`
}

// Service routes utterances between the booking machine, the canned
// symptom response and the answer generator.
type Service struct {
	sessions *session.Manager
	machine  *bookingsvc.Machine
	answers  AnswerGenerator
}

// NewService wires the router. answers may be nil; general questions then
// fail with ErrAnswerUnavailable.
func NewService(sessions *session.Manager, machine *bookingsvc.Machine, answers AnswerGenerator) *Service {
	return &Service{sessions: sessions, machine: machine, answers: answers}
}

// NewSession creates a fresh conversation and makes it active.
func (s *Service) NewSession() chat.Session {
	return s.sessions.Create()
}

// ListSessions returns the sidebar summaries in creation order.
func (s *Service) ListSessions() []chat.Summary {
	return s.sessions.Summaries()
}

// SelectSession moves the active pointer; session.ErrOutOfRange for
// unknown indices.
func (s *Service) SelectSession(index int) error {
	return s.sessions.Select(index)
}

// Transcript returns the addressed session's messages.
func (s *Service) Transcript(index int) ([]chat.Message, error) {
	return s.sessions.Transcript(index)
}

// SubmitUtterance processes one user turn against the addressed session.
// The session stays locked for the whole turn, so its booking is never
// mutated concurrently; other sessions are unaffected.
func (s *Service) SubmitUtterance(ctx context.Context, index int, text string) (Reply, error) {
	var reply Reply

	err := s.sessions.WithSession(index, func(st session.State) error {
		// Transcript snapshot before this turn; the query is passed
		// separately to the generator.
		history := st.Transcript()
		st.Append(chat.Message{Role: chat.RoleUser, Content: text})

		b := st.Booking()
		switch {
		case b.InProgress:
			r := s.machine.Advance(b, text)
			reply = Reply{Text: r.Text, Appointment: r.Appointment}
		default:
			if err := s.routeIdle(ctx, b, history, text, &reply); err != nil {
				return err
			}
		}

		st.Append(chat.Message{
			Role:        chat.RoleAssistant,
			Content:     reply.Text,
			Appointment: reply.Appointment,
		})

		observability.GetLogger().Debug("processed utterance",
			zap.Int("session", index),
			zap.String("stage", b.Stage.String()),
			zap.Bool("appointment", reply.Appointment != nil),
		)
		return nil
	})

	if err != nil {
		return Reply{}, err
	}
	return reply, nil
}

// routeIdle handles utterances while no booking is in progress.
func (s *Service) routeIdle(ctx context.Context, b *booking.Booking, history []chat.Message, text string, reply *Reply) error {
	switch intent.Classify(text) {
	case intent.Booking:
		r := s.machine.Start(b)
		*reply = Reply{Text: r.Text}
	case intent.Symptom:
		*reply = Reply{Text: symptomReply}
	default:
		if s.answers == nil {
			return ErrAnswerUnavailable
		}
		answer, err := s.answers.GenerateAnswer(ctx, history, text)
		if err != nil {
			return fmt.Errorf("failed to generate answer: %w", err)
		}
		*reply = Reply{Text: answer}
	}
	return nil
}
