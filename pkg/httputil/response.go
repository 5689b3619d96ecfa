package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nerveconnect/clinic-api/pkg/errors"
)

// ErrorBody is the wire shape of every error response: a stable
// machine-readable code plus a human-readable message, and upstream detail
// when there is any.
type ErrorBody struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RespondWithError maps a typed error to its HTTP status and error body.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.From(err)

	// Surface to the error middleware for logging.
	_ = c.Error(err)

	c.JSON(appErr.StatusCode(), ErrorBody{
		Status:  "error",
		Code:    string(appErr.Code),
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

// RespondWithSuccess sends a 200 with the given body as-is.
func RespondWithSuccess(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}
