package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bb84/internal/domain"
)

// A SimulationController runs one-shot simulations. It implements Controller.
type SimulationController struct {
	GroupName      string
	SimulationSvc  domain.SimulationService
	DefaultBits    int
	DefaultEveProb float64
}

// GetGroupName returns the group name
func (sc *SimulationController) GetGroupName() string {
	return sc.GroupName
}

// GetEndpointMap returns the simulation endpoint.
func (sc *SimulationController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/simulate", http.MethodGet}: []gin.HandlerFunc{
			func(c *gin.Context) {
				pel := &ParameterErrorList{}
				nBits := pel.AppendIfNotPositiveInt(c.Query("n_bits"), sc.DefaultBits, "n_bits")
				eveProb := pel.AppendIfNotProbability(c.Query("eve_prob"), sc.DefaultEveProb, "eve_prob")
				if len(*pel) > 0 {
					c.JSON(http.StatusBadRequest, pel)
					return
				}

				res, err := sc.SimulationSvc.Run(nBits, eveProb)
				if err != nil {
					abortWithError(c, err)
					return
				}
				c.JSON(http.StatusOK, res)
			},
		},
	}
}
