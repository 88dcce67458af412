package chat

import (
	"time"

	"github.com/wrenhealth/careline/internal/model/booking"
)

// Roles recorded on a message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message persists individual turns. Immutable once appended; Appointment
// is set only on the assistant turn that completed a booking.
type Message struct {
	ID          string               `json:"id"`
	Role        string               `json:"role"`
	Content     string               `json:"content"`
	Appointment *booking.Appointment `json:"appointment,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}
