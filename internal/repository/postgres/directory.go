package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerveconnect/clinic-api/internal/model"
)

// Lookups match on the exact name string. That two names differing only in
// case or whitespace resolve to two different records is intentional and
// load-bearing for callers.

func (r *directoryRepository) FindOrCreatePatient(ctx context.Context, name string) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient,
		`SELECT id, name, created_at FROM voice_patients WHERE name = $1`, name)
	if err == nil {
		return &patient, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}

	// The ON CONFLICT no-op update makes RETURNING yield the winning row
	// when two requests create the same name concurrently.
	err = r.db.GetContext(ctx, &patient, `
		INSERT INTO voice_patients (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`, uuid.New(), name, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return &patient, nil
}

func (r *directoryRepository) FindOrCreateDoctor(ctx context.Context, name string) (*model.Doctor, error) {
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor,
		`SELECT id, name, created_at FROM voice_doctors WHERE name = $1`, name)
	if err == nil {
		return &doctor, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up doctor: %w", err)
	}

	err = r.db.GetContext(ctx, &doctor, `
		INSERT INTO voice_doctors (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`, uuid.New(), name, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return &doctor, nil
}
