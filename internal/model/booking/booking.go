package booking

import "time"

// Stage identifies how far an in-progress booking has advanced.
type Stage int

const (
	StageNone Stage = iota
	StageDoctor
	StageDate
	StageTime
	StageConfirm
)

// String returns the wire/log name of the stage.
func (s Stage) String() string {
	switch s {
	case StageDoctor:
		return "collecting_doctor"
	case StageDate:
		return "collecting_date"
	case StageTime:
		return "collecting_time"
	case StageConfirm:
		return "awaiting_confirmation"
	default:
		return "none"
	}
}

// Details holds the fields collected so far, populated strictly in stage
// order: doctor, then date, then the combined date-time.
type Details struct {
	Doctor   string
	Date     time.Time
	DateTime time.Time
}

// Booking is the per-session mutable state of the appointment flow.
// Invariant: Stage == StageNone exactly when InProgress is false.
type Booking struct {
	InProgress bool
	Stage      Stage
	Details    Details
}

// Reset clears the booking back to its idle state. Used on cancellation
// and after a successful confirmation.
func (b *Booking) Reset() {
	b.InProgress = false
	b.Stage = StageNone
	b.Details = Details{}
}

// Appointment is the immutable result of a completed booking, consumed by
// the calendar exporter. StartsAt is timezone-naive local time.
type Appointment struct {
	Doctor   string    `json:"doctor"`
	StartsAt time.Time `json:"datetime"`
	Summary  string    `json:"summary"`
}
