package prescription

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerveconnect/clinic-api/internal/model"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
	"github.com/nerveconnect/clinic-api/pkg/gemini"
)

type stubGenerator struct {
	reply  string
	err    error
	gotReq gemini.Request
}

func (s *stubGenerator) GenerateContent(_ context.Context, req gemini.Request) (string, error) {
	s.gotReq = req
	return s.reply, s.err
}

type stubRecorder struct {
	err      error
	gotCase  *model.ClinicalCase
	gotText  string
	recorded bool
}

func (s *stubRecorder) Record(_ context.Context, c *model.ClinicalCase, text string) error {
	s.recorded = true
	s.gotCase = c
	s.gotText = text
	return s.err
}

func newTestService(gen Generator, rec Recorder, fallback string) *Service {
	return NewService(gen, rec, nil, nil, zerolog.Nop(), fallback)
}

func TestComposeFillsPromptSlots(t *testing.T) {
	gen := &stubGenerator{reply: "Take rest and drink fluids."}
	rec := &stubRecorder{}
	svc := newTestService(gen, rec, "")

	text, err := svc.Compose(context.Background(), &model.ClinicalCase{
		Symptoms:  "persistent cough",
		Diagnosis: "common cold",
		HeartRate: 72,
	})
	require.NoError(t, err)
	assert.Equal(t, "Take rest and drink fluids.", text)

	assert.Equal(t, "compose", gen.gotReq.Operation)
	assert.Equal(t, 0.2, gen.gotReq.Temperature)
	assert.Equal(t, "text/plain", gen.gotReq.ResponseMIMEType)

	prompt := gen.gotReq.Prompt
	assert.Contains(t, prompt, "Symptoms: persistent cough")
	assert.Contains(t, prompt, "Diagnosis: common cold")
	assert.Contains(t, prompt, "- Heart Rate: 72")
	assert.NotContains(t, prompt, "{symptoms}")
	assert.NotContains(t, prompt, "{oxygenSaturation}")
	// instructions, blood pressure, temperature, oxygen saturation are absent
	assert.Equal(t, 4, strings.Count(prompt, "Not provided"))
}

func TestComposeSubstitutesAllPlaceholders(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	svc := newTestService(gen, nil, "")

	_, err := svc.Compose(context.Background(), &model.ClinicalCase{})
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(gen.gotReq.Prompt, "Not provided"))
}

func TestComposeFormatsFractionalVitals(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	svc := newTestService(gen, nil, "")

	_, err := svc.Compose(context.Background(), &model.ClinicalCase{
		Temperature:      98.6,
		OxygenSaturation: 97,
	})
	require.NoError(t, err)
	assert.Contains(t, gen.gotReq.Prompt, "- Temperature: 98.6")
	assert.Contains(t, gen.gotReq.Prompt, "- Oxygen Saturation: 97")
}

func TestComposeArchivesResult(t *testing.T) {
	gen := &stubGenerator{reply: "Amoxicillin 500mg three times daily for five days."}
	rec := &stubRecorder{}
	svc := newTestService(gen, rec, "")

	clinicalCase := &model.ClinicalCase{Diagnosis: "sinusitis"}
	_, err := svc.Compose(context.Background(), clinicalCase)
	require.NoError(t, err)

	assert.True(t, rec.recorded)
	assert.Equal(t, clinicalCase, rec.gotCase)
	assert.Equal(t, "Amoxicillin 500mg three times daily for five days.", rec.gotText)
}

func TestComposeToleratesArchiveFailure(t *testing.T) {
	gen := &stubGenerator{reply: "Take rest."}
	rec := &stubRecorder{err: errors.New("database unavailable")}
	svc := newTestService(gen, rec, "")

	text, err := svc.Compose(context.Background(), &model.ClinicalCase{Symptoms: "fatigue"})
	require.NoError(t, err)
	assert.Equal(t, "Take rest.", text)
}

func TestComposeSubstitutesEmptyReply(t *testing.T) {
	gen := &stubGenerator{reply: ""}
	svc := newTestService(gen, nil, "")

	text, err := svc.Compose(context.Background(), &model.ClinicalCase{Symptoms: "headache"})
	require.NoError(t, err)
	assert.Equal(t, "Prescription generation failed or returned empty.", text)
}

func TestComposeSurfacesUpstreamError(t *testing.T) {
	gen := &stubGenerator{err: apperrors.Upstream("Failed to call Gemini API", "quota exceeded", nil)}
	svc := newTestService(gen, nil, "")

	_, err := svc.Compose(context.Background(), &model.ClinicalCase{Symptoms: "headache"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUpstream))
}

func TestComposeServesFallbackWhenConfigured(t *testing.T) {
	gen := &stubGenerator{err: apperrors.Upstream("Failed to call Gemini API", "timeout", nil)}
	svc := newTestService(gen, nil, "Please consult your physician directly.")

	text, err := svc.Compose(context.Background(), &model.ClinicalCase{Symptoms: "headache"})
	require.NoError(t, err)
	assert.Equal(t, "Please consult your physician directly.", text)
}

func TestComposeFallbackSkipsConfigurationErrors(t *testing.T) {
	gen := &stubGenerator{err: apperrors.Configuration("Gemini API key is not configured")}
	svc := newTestService(gen, nil, "Please consult your physician directly.")

	_, err := svc.Compose(context.Background(), &model.ClinicalCase{Symptoms: "headache"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConfiguration))
}

