package httpapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParameterErrorList contains a list of human-readable errors about parameters.
type ParameterErrorList []string

// AppendIfNotPositiveInt parses str as a positive int. An empty str yields def.
func (pel *ParameterErrorList) AppendIfNotPositiveInt(str string, def int, name string) int {
	if str = strings.TrimSpace(str); str == "" {
		return def
	}
	v, err := strconv.Atoi(str)
	if err != nil || v <= 0 {
		*pel = append(*pel, fmt.Sprintf("%s must be a positive integer.", name))
		return 0
	}
	return v
}

// AppendIfNotProbability parses str as a float in [0, 1]. An empty str yields def.
func (pel *ParameterErrorList) AppendIfNotProbability(str string, def float64, name string) float64 {
	if str = strings.TrimSpace(str); str == "" {
		return def
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
		*pel = append(*pel, fmt.Sprintf("%s must be a number between 0 and 1.", name))
		return 0
	}
	return v
}
