package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nerveconnect/clinic-api/internal/model"
	"github.com/nerveconnect/clinic-api/internal/repository"
)

// Service archives composed prescriptions together with the case they were
// drafted from. Recording is best-effort; callers log failures and move on.
type Service struct {
	analyses repository.AnalysisRepository
	logger   zerolog.Logger
}

func NewService(analyses repository.AnalysisRepository, logger zerolog.Logger) *Service {
	return &Service{
		analyses: analyses,
		logger:   logger.With().Str("service", "audit").Logger(),
	}
}

// Record stores one prescription audit entry.
func (s *Service) Record(ctx context.Context, clinicalCase *model.ClinicalCase, prescription string) error {
	caseData, err := json.Marshal(clinicalCase)
	if err != nil {
		return err
	}

	analysis := &model.AIAnalysis{
		ID:           uuid.New(),
		CaseData:     caseData,
		Prescription: prescription,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.analyses.Create(ctx, analysis); err != nil {
		return err
	}

	s.logger.Debug().Str("analysis_id", analysis.ID.String()).Msg("prescription archived")
	return nil
}
