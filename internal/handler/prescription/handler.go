package prescription

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/nerveconnect/clinic-api/internal/model"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
	"github.com/nerveconnect/clinic-api/pkg/httputil"
)

// Composer drafts prescription text from a clinical case.
type Composer interface {
	Compose(ctx context.Context, clinicalCase *model.ClinicalCase) (string, error)
}

// Handler serves the prescription endpoints.
type Handler struct {
	composer Composer
}

func NewHandler(composer Composer) *Handler {
	return &Handler{composer: composer}
}

// ComposePrescription handles POST /clinical-cases/compose.
func (h *Handler) ComposePrescription(c *gin.Context) {
	var req model.ComposePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation("Invalid request body", err))
		return
	}

	prescription, err := h.composer.Compose(c.Request.Context(), req.EffectiveCase())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"prescription": prescription})
}
