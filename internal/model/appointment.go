package model

import (
	"time"

	"github.com/google/uuid"
)

// VoiceAppointment is a booking created through the voice-intake pipeline.
// Appointments are never mutated after creation.
type VoiceAppointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BookVoiceAppointmentRequest is the typed body of POST /voice-appointments.
// Datetime stays a string here: the coordinator owns parsing and
// re-validates everything regardless of what the transport checked.
type BookVoiceAppointmentRequest struct {
	PatientName string `json:"patientName" validate:"required"`
	DoctorName  string `json:"doctorName" validate:"required"`
	Datetime    string `json:"datetime" validate:"required"`
}

// BookingConfirmation is returned on a successful booking.
type BookingConfirmation struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	Message       string    `json:"message"`
}

// ExtractionResult is the structured intent derived from a free-text
// utterance. Transient: produced by the extraction service, consumed once.
type ExtractionResult struct {
	PatientName string    `json:"patientName"`
	DoctorName  string    `json:"doctorName"`
	ScheduledAt time.Time `json:"datetime"`
}

// ParseTranscriptRequest is the body of POST /transcripts/parse.
type ParseTranscriptRequest struct {
	Transcript string `json:"transcript"`
}
