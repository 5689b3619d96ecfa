package voice

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nerveconnect/clinic-api/internal/model"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
	"github.com/nerveconnect/clinic-api/pkg/httputil"
)

// Booker schedules an appointment from extracted fields.
type Booker interface {
	Book(ctx context.Context, req *model.BookVoiceAppointmentRequest) (*model.BookingConfirmation, error)
}

// Extractor parses a transcript into booking fields.
type Extractor interface {
	Extract(ctx context.Context, transcript string) (*model.ExtractionResult, error)
}

// Handler serves the voice-intake endpoints.
type Handler struct {
	booker    Booker
	extractor Extractor
}

func NewHandler(booker Booker, extractor Extractor) *Handler {
	return &Handler{booker: booker, extractor: extractor}
}

// BookAppointment handles POST /voice-appointments.
func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookVoiceAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("Missing required fields: patientName, doctorName, and datetime are required", err))
		return
	}

	confirmation, err := h.booker.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, confirmation)
}

// ParseTranscript handles POST /transcripts/parse.
func (h *Handler) ParseTranscript(c *gin.Context) {
	var req model.ParseTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("Transcript is required", err))
		return
	}

	result, err := h.extractor.Extract(c.Request.Context(), req.Transcript)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	details := gin.H{
		"patientName": result.PatientName,
		"doctorName":  result.DoctorName,
	}
	if !result.ScheduledAt.IsZero() {
		details["datetime"] = result.ScheduledAt.UTC().Format(time.RFC3339)
	}
	httputil.RespondWithSuccess(c, gin.H{"details": details})
}
