package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/nerveconnect/clinic-api/internal/model"
)

func (r *analysisRepository) Create(ctx context.Context, analysis *model.AIAnalysis) error {
	query := `
		INSERT INTO ai_analyses (id, case_data, prescription, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.CaseData,
		analysis.Prescription,
		analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis record: %w", err)
	}
	return nil
}

func (r *analysisRepository) Cleanup(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM ai_analyses WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup analysis records: %w", err)
	}
	return result.RowsAffected()
}
