package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration acknowledges an alert sign-up. It is neither stored nor acted
// upon; the dashboard only echoes it back.
type Registration struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	IPO          string    `json:"ipo"`
	RegisteredAt time.Time `json:"registered_at"`
}

func NewRegistration(email, ipo string, at time.Time) Registration {
	return Registration{
		ID:           uuid.New(),
		Email:        email,
		IPO:          ipo,
		RegisteredAt: at,
	}
}
