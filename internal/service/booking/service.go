package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nerveconnect/clinic-api/internal/model"
	"github.com/nerveconnect/clinic-api/internal/repository"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
	"github.com/nerveconnect/clinic-api/pkg/messaging"
	"github.com/nerveconnect/clinic-api/pkg/metrics"
	"github.com/nerveconnect/clinic-api/pkg/validator"
)

const topicBookings = "clinic.bookings"

// Service books voice-intake appointments. It resolves the named patient
// and doctor, checks the doctor's schedule for conflicts and persists the
// booking, serializing per doctor so concurrent requests for the same slot
// cannot both succeed.
type Service struct {
	directory    repository.DirectoryRepository
	appointments repository.AppointmentRepository
	validator    *validator.Validator
	locks        *lockRegistry
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

func NewService(
	directory repository.DirectoryRepository,
	appointments repository.AppointmentRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		directory:    directory,
		appointments: appointments,
		validator:    validator.New(),
		locks:        newLockRegistry(),
		broker:       broker,
		metrics:      m,
		logger:       logger.With().Str("service", "booking").Logger(),
		now:          time.Now,
	}
}

// Book schedules an appointment from already-extracted fields. The datetime
// must be RFC 3339 and strictly in the future.
func (s *Service) Book(ctx context.Context, req *model.BookVoiceAppointmentRequest) (*model.BookingConfirmation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.Validation("Missing required fields: patientName, doctorName, and datetime are required", err)
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.Datetime)
	if err != nil {
		return nil, apperrors.Validation("Invalid datetime. Use ISO format like 2025-06-20T15:30:00Z", err)
	}
	if !scheduledAt.After(s.now()) {
		return nil, apperrors.Validation("Appointment datetime must be in the future", nil)
	}

	patient, err := s.directory.FindOrCreatePatient(ctx, req.PatientName)
	if err != nil {
		return nil, apperrors.Persistence("failed to resolve patient", err)
	}
	doctor, err := s.directory.FindOrCreateDoctor(ctx, req.DoctorName)
	if err != nil {
		return nil, apperrors.Persistence("failed to resolve doctor", err)
	}

	lock := s.locks.forDoctor(doctor.ID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.appointments.ListByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, apperrors.Persistence("failed to load doctor schedule", err)
	}

	times := make([]time.Time, len(existing))
	for i, apt := range existing {
		times[i] = apt.ScheduledAt
	}
	if HasConflict(scheduledAt, times) {
		s.metrics.RecordBooking("conflict")
		return nil, s.conflictError(doctor.Name)
	}

	apt := &model.VoiceAppointment{
		ID:          uuid.New(),
		DoctorID:    doctor.ID,
		PatientID:   patient.ID,
		ScheduledAt: scheduledAt,
		CreatedAt:   s.now().UTC(),
	}
	inserted, err := s.appointments.CreateIfFree(ctx, apt, ConflictWindow)
	if err != nil {
		return nil, apperrors.Persistence("failed to save appointment", err)
	}
	if !inserted {
		s.metrics.RecordBooking("conflict")
		return nil, s.conflictError(doctor.Name)
	}

	s.metrics.RecordBooking("scheduled")
	s.logger.Info().
		Str("appointment_id", apt.ID.String()).
		Str("doctor", doctor.Name).
		Time("scheduled_at", scheduledAt).
		Msg("appointment scheduled")

	if err := messaging.Publish(ctx, s.broker, topicBookings, "booking.created", apt); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish booking event")
	}

	return &model.BookingConfirmation{
		AppointmentID: apt.ID,
		Message: fmt.Sprintf("Appointment successfully scheduled with %s at %s",
			doctor.Name, scheduledAt.UTC().Format(time.RFC1123)),
	}, nil
}

func (s *Service) conflictError(doctorName string) error {
	return apperrors.Conflict(fmt.Sprintf(
		"Sorry, %s is unavailable at that time. Please choose another time.", doctorName))
}
