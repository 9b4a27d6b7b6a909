package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bb84/internal/domain"
)

// A RootController serves the banner and health check. It implements Controller.
type RootController struct {
	GroupName  string
	SessionSvc domain.SessionService
}

// GetGroupName returns the group name
func (rc *RootController) GetGroupName() string {
	return rc.GroupName
}

type banner struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// GetEndpointMap returns the root endpoints.
func (rc *RootController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/", http.MethodGet}: []gin.HandlerFunc{
			func(c *gin.Context) {
				c.JSON(http.StatusOK, banner{
					Message:   "BB84 QKD Demo API",
					SessionID: rc.SessionSvc.Status().SessionID,
				})
			},
		},

		urlMethodPair{"/healthz", http.MethodGet}: []gin.HandlerFunc{
			func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
			},
		},
	}
}
