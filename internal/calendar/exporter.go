// Package calendar materializes confirmed appointments as iCalendar
// documents.
package calendar

import (
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/wrenhealth/careline/internal/model/booking"
)

// Download conventions for the exported document.
const (
	MIMEType = "text/calendar"
	Filename = "appointment.ics"
)

// Location is stamped on every exported event.
const Location = "Medical Clinic"

// eventDuration is fixed; appointments are one hour.
const eventDuration = time.Hour

// floatingLayout renders local time with no timezone designator.
const floatingLayout = "20060102T150405"

// ErrInvalidAppointment rejects records whose date-time cannot be
// represented in the target format.
var ErrInvalidAppointment = errors.New("appointment date-time cannot be represented")

// Exporter serializes appointments. Identical records yield identical
// documents apart from the DTSTAMP generation timestamp.
type Exporter struct {
	now func() time.Time
}

// NewExporter returns an exporter stamping documents with the wall clock.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Export renders one VEVENT: the record's summary, its start, a fixed
// one-hour duration and the clinic location.
func (e *Exporter) Export(appointment booking.Appointment) ([]byte, error) {
	if appointment.StartsAt.IsZero() {
		return nil, ErrInvalidAppointment
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	event := cal.AddEvent(eventUID(appointment))
	event.SetDtStampTime(e.now())
	event.SetSummary(appointment.Summary)
	event.SetLocation(Location)
	event.SetProperty(ics.ComponentPropertyDtStart, appointment.StartsAt.Format(floatingLayout))
	event.SetProperty(ics.ComponentPropertyDtEnd, appointment.StartsAt.Add(eventDuration).Format(floatingLayout))

	return []byte(cal.Serialize()), nil
}

// eventUID derives a stable identifier from the record so re-exports of
// the same appointment carry the same UID.
func eventUID(appointment booking.Appointment) string {
	seed := fmt.Sprintf("%s|%s", appointment.Summary, appointment.StartsAt.Format(floatingLayout))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String() + "@careline"
}
