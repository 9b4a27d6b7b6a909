package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bb84/internal/domain"
)

// A SessionController serves the shared session. It implements Controller.
type SessionController struct {
	GroupName  string
	SessionSvc domain.SessionService
}

// GetGroupName returns the group name
func (sc *SessionController) GetGroupName() string {
	return sc.GroupName
}

// GetEndpointMap returns the session endpoints.
func (sc *SessionController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/status", http.MethodGet}: []gin.HandlerFunc{
			func(c *gin.Context) {
				c.JSON(http.StatusOK, sc.SessionSvc.Status())
			},
		},

		urlMethodPair{"/reset", http.MethodPost}: []gin.HandlerFunc{
			func(c *gin.Context) {
				sc.SessionSvc.Reset()
				c.JSON(http.StatusOK, message{Message: "Session reset successfully"})
			},
		},
	}
}
