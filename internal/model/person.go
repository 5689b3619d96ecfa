package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a person record in the voice-booking directory. Identity is
// the exact name string: no trimming, no case folding. "Dr. Smith" and
// "dr. smith" are two different records.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Doctor follows the same exact-name identity rule as Patient.
type Doctor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
