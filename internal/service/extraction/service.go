package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nerveconnect/clinic-api/internal/model"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
	"github.com/nerveconnect/clinic-api/pkg/gemini"
	"github.com/nerveconnect/clinic-api/pkg/metrics"
)

// extractionPrompt asks for the three booking fields as a bare JSON object.
// The example shapes the reply so downstream parsing stays mechanical.
const extractionPrompt = `Extract patient name, doctor name, and appointment date and time from this sentence: "%s". Return in this JSON format:
{
  "patientName": "John Doe",
  "doctorName": "Dr. Smith",
  "datetime": "2025-06-20T15:30:00Z"
}
**Ensure the output is ONLY the JSON object, with no other text or markdown.**`

// Generator is the slice of the language-model client the extractor needs.
type Generator interface {
	GenerateContent(ctx context.Context, req gemini.Request) (string, error)
}

// Service turns a free-form intake transcript into structured booking
// fields using the language model.
type Service struct {
	generator Generator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewService(generator Generator, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		generator: generator,
		metrics:   m,
		logger:    logger.With().Str("service", "extraction").Logger(),
	}
}

type extractedFields struct {
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	Datetime    string `json:"datetime"`
}

// Extract pulls patient name, doctor name and appointment time out of the
// transcript. Fields the model could not determine come back empty; only a
// reply with none of the three is treated as a failed extraction.
func (s *Service) Extract(ctx context.Context, transcript string) (*model.ExtractionResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperrors.Validation("Transcript is required", nil)
	}

	reply, err := s.generator.GenerateContent(ctx, gemini.Request{
		Operation:        "extract",
		Prompt:           fmt.Sprintf(extractionPrompt, transcript),
		Temperature:      0,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		s.metrics.RecordExtraction("error")
		if apperrors.IsCode(err, apperrors.ErrConfiguration) {
			return nil, err
		}
		return nil, apperrors.Extraction("Failed to extract appointment details from transcript", err)
	}

	var fields extractedFields
	if err := json.Unmarshal([]byte(gemini.StripFences(reply)), &fields); err != nil {
		s.metrics.RecordExtraction("error")
		return nil, apperrors.Extraction("Failed to extract appointment details from transcript", err)
	}
	if fields.PatientName == "" && fields.DoctorName == "" && fields.Datetime == "" {
		s.metrics.RecordExtraction("empty")
		return nil, apperrors.Extraction("Failed to extract appointment details from transcript", nil)
	}

	result := &model.ExtractionResult{
		PatientName: fields.PatientName,
		DoctorName:  fields.DoctorName,
	}
	if fields.Datetime != "" {
		at, err := time.Parse(time.RFC3339, fields.Datetime)
		if err != nil {
			s.metrics.RecordExtraction("error")
			return nil, apperrors.Extraction("Failed to extract appointment details from transcript", err)
		}
		result.ScheduledAt = at
	}

	s.metrics.RecordExtraction("ok")
	s.logger.Debug().
		Str("patient", result.PatientName).
		Str("doctor", result.DoctorName).
		Msg("transcript parsed")
	return result, nil
}
