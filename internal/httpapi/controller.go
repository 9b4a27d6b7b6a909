package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type urlMethodPair struct {
	urlSuffix, method string
}

// EndpointMap maps (urlSuffix, method) to the handlers for that endpoint.
type EndpointMap map[urlMethodPair][]gin.HandlerFunc

// A Controller owns a group of endpoints.
type Controller interface {
	GetGroupName() string
	GetEndpointMap() EndpointMap
}

// RegisterHandlers registers the endpoint handlers in the controller to the router group.
func RegisterHandlers(r *gin.RouterGroup, c Controller) error {
	group := r.Group(c.GetGroupName())

	for pair, handlers := range c.GetEndpointMap() {
		switch {
		case strings.EqualFold(pair.method, http.MethodGet):
			group.GET(pair.urlSuffix, handlers...)
		case strings.EqualFold(pair.method, http.MethodPost):
			group.POST(pair.urlSuffix, handlers...)
		case strings.EqualFold(pair.method, http.MethodPut):
			group.PUT(pair.urlSuffix, handlers...)
		case strings.EqualFold(pair.method, http.MethodDelete):
			group.DELETE(pair.urlSuffix, handlers...)
		default:
			return fmt.Errorf("unsupported HTTP method %q for %s", pair.method, pair.urlSuffix)
		}
	}
	return nil
}
