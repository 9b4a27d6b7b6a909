package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bb84/internal/domain"
)

// A MessageController posts and lists chat messages. It implements Controller.
type MessageController struct {
	GroupName  string
	SessionSvc domain.SessionService
}

// GetGroupName returns the group name
func (mc *MessageController) GetGroupName() string {
	return mc.GroupName
}

type messageList struct {
	Messages []domain.Message `json:"messages"`
}

// GetEndpointMap returns the message endpoints.
func (mc *MessageController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/message", http.MethodPost}: []gin.HandlerFunc{
			func(c *gin.Context) {
				var req domain.SendMessageEvent
				if err := c.ShouldBindJSON(&req); err != nil {
					c.JSON(http.StatusBadRequest, ParameterErrorList{"Request body must be a JSON message."})
					return
				}

				pel := &ParameterErrorList{}
				if strings.TrimSpace(req.Sender) == "" {
					*pel = append(*pel, "sender must not be empty.")
				}
				if len(*pel) > 0 {
					c.JSON(http.StatusBadRequest, pel)
					return
				}

				if _, err := mc.SessionSvc.PostMessage(req); err != nil {
					abortWithError(c, err)
					return
				}
				c.JSON(http.StatusOK, message{Message: "Message sent successfully"})
			},
		},

		urlMethodPair{"/messages", http.MethodGet}: []gin.HandlerFunc{
			func(c *gin.Context) {
				c.JSON(http.StatusOK, messageList{Messages: mc.SessionSvc.Messages()})
			},
		},
	}
}
