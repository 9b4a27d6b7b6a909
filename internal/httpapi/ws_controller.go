package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bb84/internal/transport/ws"
)

// A WebSocketController upgrades participant connections. It implements Controller.
type WebSocketController struct {
	GroupName string
	Handler   *ws.Handler
}

// GetGroupName returns the group name
func (wc *WebSocketController) GetGroupName() string {
	return wc.GroupName
}

// GetEndpointMap returns the WebSocket endpoints.
func (wc *WebSocketController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"", http.MethodGet}: []gin.HandlerFunc{
			func(c *gin.Context) {
				wc.Handler.ServeHTTP(c.Writer, c.Request)
			},
		},

		urlMethodPair{"/:user_id", http.MethodGet}: []gin.HandlerFunc{
			func(c *gin.Context) {
				wc.Handler.Serve(c.Writer, c.Request, c.Param("user_id"))
			},
		},
	}
}
