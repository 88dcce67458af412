// Package booking implements the stage-gated appointment dialogue: a
// deterministic state machine that collects doctor, date and time, one
// user turn at a time.
package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/wrenhealth/careline/internal/analysis/intent"
	"github.com/wrenhealth/careline/internal/model/booking"
	"github.com/wrenhealth/careline/internal/temporal"
)

// Prompts returned by the machine. The texts double as the conversational
// error surface: parse and validation failures never leave the dialogue.
const (
	promptDoctor    = "Sure! Let's schedule that. What's the doctor's name?"
	promptDate      = "Great. On which date would you like to schedule the appointment? (e.g., 'June 25th' or 'next Monday')"
	promptTime      = "What time works for you? (e.g., '10 AM' or '3:30 PM')"
	promptPastDate  = "Please select a future date. You can't book appointments in the past."
	promptBadDate   = "I couldn't understand that date. Please enter a date like 'tomorrow' or 'next Monday'."
	promptBadTime   = "I couldn't understand that time. Please try again."
	promptTimeError = "There was an error processing the time. Please try again."
	promptBooked    = "Appointment booked! Would you like to add this to your calendar?"
	promptCancelled = "Appointment booking cancelled."
	confirmLayout   = "Monday, January 2 2006 at 03:04 PM"
	summaryTemplate = "Appointment with %s"
	confirmTemplate = "Confirming: Appointment with %s on %s. Should I book this? (Please respond 'confirm' or 'cancel')"
)

// Reply is one assistant turn produced by the machine. Appointment is
// non-nil only on the turn that completed a booking.
type Reply struct {
	Text        string
	Appointment *booking.Appointment
}

// Machine evaluates booking transitions. It mutates only the Booking it
// is handed; given the same stage, details, input and clock it is fully
// reproducible.
type Machine struct {
	resolver temporal.Resolver
	now      func() time.Time
}

// NewMachine wires the machine to a temporal resolver.
func NewMachine(resolver temporal.Resolver) *Machine {
	return &Machine{resolver: resolver, now: time.Now}
}

// Start begins the flow on an idle booking and asks for the doctor.
func (m *Machine) Start(b *booking.Booking) Reply {
	b.InProgress = true
	b.Stage = booking.StageDoctor
	return Reply{Text: promptDoctor}
}

// Advance feeds one user utterance into an in-progress booking. The
// cancel command wins over every stage-specific rule.
func (m *Machine) Advance(b *booking.Booking, input string) Reply {
	if intent.IsCancel(input) {
		b.Reset()
		return Reply{Text: promptCancelled}
	}

	switch b.Stage {
	case booking.StageDoctor:
		return m.collectDoctor(b, input)
	case booking.StageDate:
		return m.collectDate(b, input)
	case booking.StageTime:
		return m.collectTime(b, input)
	case booking.StageConfirm:
		return m.confirm(b, input)
	default:
		// Idle machine: callers route through Start instead.
		return Reply{Text: promptDoctor}
	}
}

func (m *Machine) collectDoctor(b *booking.Booking, input string) Reply {
	doctor := strings.TrimSpace(input)
	if doctor == "" {
		return Reply{Text: promptDoctor}
	}

	b.Details.Doctor = doctor
	b.Stage = booking.StageDate
	return Reply{Text: promptDate}
}

func (m *Machine) collectDate(b *booking.Booking, input string) Reply {
	now := m.now()

	var date time.Time
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "today":
		date = midnight(now)
	case "tomorrow":
		date = midnight(now.AddDate(0, 0, 1))
	default:
		resolved, err := m.resolver.ResolveDate(input, temporal.DateOptions{
			Reference:    now,
			PreferFuture: true,
		})
		if err != nil {
			return Reply{Text: promptBadDate}
		}
		date = resolved
	}

	if date.Before(midnight(now)) {
		return Reply{Text: promptPastDate}
	}

	b.Details.Date = date
	b.Stage = booking.StageTime
	return Reply{Text: promptTime}
}

func (m *Machine) collectTime(b *booking.Booking, input string) Reply {
	resolved, err := m.resolver.ResolveTime(input, m.now())
	if err != nil {
		return Reply{Text: promptBadTime}
	}

	date := b.Details.Date
	if date.IsZero() {
		// Stored date went missing; keep the stage so the user can retry.
		return Reply{Text: promptTimeError}
	}

	b.Details.DateTime = time.Date(
		date.Year(), date.Month(), date.Day(),
		resolved.Hour(), resolved.Minute(), 0, 0,
		date.Location(),
	)
	b.Stage = booking.StageConfirm

	formatted := b.Details.DateTime.Format(confirmLayout)
	return Reply{Text: fmt.Sprintf(confirmTemplate, b.Details.Doctor, formatted)}
}

func (m *Machine) confirm(b *booking.Booking, input string) Reply {
	if !intent.IsConfirm(input) {
		b.Reset()
		return Reply{Text: promptCancelled}
	}

	appointment := &booking.Appointment{
		Doctor:   b.Details.Doctor,
		StartsAt: b.Details.DateTime,
		Summary:  fmt.Sprintf(summaryTemplate, b.Details.Doctor),
	}
	b.Reset()
	return Reply{Text: promptBooked, Appointment: appointment}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
