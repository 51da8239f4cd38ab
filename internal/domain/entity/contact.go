package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Message   string
	Seen      bool
	CreatedAt time.Time
}
