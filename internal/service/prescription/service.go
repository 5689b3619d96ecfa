package prescription

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nerveconnect/clinic-api/internal/model"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
	"github.com/nerveconnect/clinic-api/pkg/gemini"
	"github.com/nerveconnect/clinic-api/pkg/messaging"
	"github.com/nerveconnect/clinic-api/pkg/metrics"
)

const topicPrescriptions = "clinic.prescriptions"

const promptTemplate = `You are a medical assistant generating a short and complete prescription based on the following appointment details.

Patient Case:

Symptoms: {symptoms}
Diagnosis: {diagnosis}
Instructions: {instructions}
Vitals:
- Blood Pressure: {bloodPressure}
- Heart Rate: {heartRate}
- Temperature: {temperature}
- Oxygen Saturation: {oxygenSaturation}

Provide a single concise paragraph that includes:
- The suggested medicine with dosage and frequency,
- Duration of medication,
- Lifestyle and dietary recommendations,
- Any additional remarks for recovery.

Write it clearly and professionally as a one-paragraph prescription, written in the first person as if by the physician. Avoid bullet points.`

const notProvided = "Not provided"

// Recorder archives a composed prescription. Failures are logged, never
// surfaced to the caller.
type Recorder interface {
	Record(ctx context.Context, clinicalCase *model.ClinicalCase, prescription string) error
}

// Generator is the slice of the language-model client the composer needs.
type Generator interface {
	GenerateContent(ctx context.Context, req gemini.Request) (string, error)
}

// Service drafts prescription text from a structured clinical case.
type Service struct {
	generator    Generator
	recorder     Recorder
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	fallbackText string
}

func NewService(
	generator Generator,
	recorder Recorder,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger zerolog.Logger,
	fallbackText string,
) *Service {
	return &Service{
		generator:    generator,
		recorder:     recorder,
		broker:       broker,
		metrics:      m,
		logger:       logger.With().Str("service", "prescription").Logger(),
		fallbackText: fallbackText,
	}
}

// Compose turns the case into a one-paragraph prescription. The case is
// archived afterwards on a best-effort basis.
func (s *Service) Compose(ctx context.Context, clinicalCase *model.ClinicalCase) (string, error) {
	prompt := buildPrompt(clinicalCase)

	reply, err := s.generator.GenerateContent(ctx, gemini.Request{
		Operation:        "compose",
		Prompt:           prompt,
		Temperature:      0.2,
		ResponseMIMEType: "text/plain",
	})
	if err != nil {
		s.metrics.RecordComposition("error")
		if s.fallbackText != "" && apperrors.IsCode(err, apperrors.ErrUpstream) {
			s.logger.Warn().Err(err).Msg("composition failed, serving fallback text")
			return s.fallbackText, nil
		}
		return "", err
	}

	prescription := reply
	if prescription == "" {
		prescription = "Prescription generation failed or returned empty."
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, clinicalCase, prescription); err != nil {
			s.logger.Warn().Err(err).Msg("failed to archive prescription")
		}
	}
	if err := messaging.Publish(ctx, s.broker, topicPrescriptions, "prescription.generated", map[string]string{
		"prescription": prescription,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish prescription event")
	}

	s.metrics.RecordComposition("ok")
	return prescription, nil
}

// buildPrompt fills the template slots, substituting "Not provided" for
// absent fields. Vitals at zero count as absent.
func buildPrompt(c *model.ClinicalCase) string {
	replacer := strings.NewReplacer(
		"{symptoms}", orPlaceholder(c.Symptoms),
		"{diagnosis}", orPlaceholder(c.Diagnosis),
		"{instructions}", orPlaceholder(c.Instructions),
		"{bloodPressure}", orPlaceholder(c.BloodPressure),
		"{heartRate}", vitalOrPlaceholder(c.HeartRate),
		"{temperature}", vitalOrPlaceholder(c.Temperature),
		"{oxygenSaturation}", vitalOrPlaceholder(c.OxygenSaturation),
	)
	return replacer.Replace(promptTemplate)
}

func orPlaceholder(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

func vitalOrPlaceholder(v float64) string {
	if v == 0 {
		return notProvided
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
