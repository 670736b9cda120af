package types

import (
	"time"

	"github.com/google/uuid"
)

// StatusCheck matches the status_checks table structure.
type StatusCheck struct {
	ID         uuid.UUID `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

type StatusCheckCreate struct {
	ClientName string `json:"client_name"`
}
