package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/nerveconnect/clinic-api/internal/repository"
)

type directoryRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type analysisRepository struct {
	db *sqlx.DB
}

func NewDirectoryRepository(db *sqlx.DB) repository.DirectoryRepository {
	return &directoryRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewAnalysisRepository(db *sqlx.DB) repository.AnalysisRepository {
	return &analysisRepository{db: db}
}
