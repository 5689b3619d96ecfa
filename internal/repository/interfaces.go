package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nerveconnect/clinic-api/internal/model"
)

// DirectoryRepository resolves patients and doctors by exact name,
// creating the record on first mention.
type DirectoryRepository interface {
	FindOrCreatePatient(ctx context.Context, name string) (*model.Patient, error)
	FindOrCreateDoctor(ctx context.Context, name string) (*model.Doctor, error)
}

// AppointmentRepository owns voice appointments.
type AppointmentRepository interface {
	// ListByDoctor returns every booking for the doctor, oldest first.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.VoiceAppointment, error)
	// CreateIfFree inserts the appointment only if no existing booking for
	// the same doctor lies strictly within the window of its time. Returns
	// false when the insert was refused, so a conflict that slipped past
	// the in-process check still cannot be persisted.
	CreateIfFree(ctx context.Context, apt *model.VoiceAppointment, window time.Duration) (bool, error)
}

// AnalysisRepository stores prescription audit records.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *model.AIAnalysis) error
	// Cleanup deletes records created before cutoff, returning the count.
	Cleanup(ctx context.Context, cutoff time.Time) (int64, error)
}
