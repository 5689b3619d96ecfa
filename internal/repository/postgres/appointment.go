package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerveconnect/clinic-api/internal/model"
)

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.VoiceAppointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, scheduled_at, created_at
		FROM voice_appointments
		WHERE doctor_id = $1
		ORDER BY scheduled_at ASC
	`
	var appointments []*model.VoiceAppointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CreateIfFree(ctx context.Context, apt *model.VoiceAppointment, window time.Duration) (bool, error) {
	// Check and insert in one statement so two instances racing on the
	// same doctor cannot both persist inside the window. The bound is
	// exclusive: a booking exactly `window` away is allowed.
	query := `
		INSERT INTO voice_appointments (id, doctor_id, patient_id, scheduled_at, created_at)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM voice_appointments
			WHERE doctor_id = $2
			  AND scheduled_at > $6
			  AND scheduled_at < $7
		)
	`
	result, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.DoctorID,
		apt.PatientID,
		apt.ScheduledAt,
		apt.CreatedAt,
		apt.ScheduledAt.Add(-window),
		apt.ScheduledAt.Add(window),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}
