package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bb84/internal/domain"
)

type detail struct {
	Detail string `json:"detail"`
}

type message struct {
	Message string `json:"message"`
}

// statusOf maps a domain error to an HTTP status. Anything unrecognised,
// including simulation.ErrSimulationFailed, is a 500.
func statusOf(err error) int {
	var verr *domain.ValidationError
	var perr *domain.PhaseSequenceError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &perr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusOf(err), detail{Detail: err.Error()})
}
