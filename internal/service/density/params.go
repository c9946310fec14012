package density

import (
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/spf13/viper"
)

// Params bound the rendered densities. Floor keeps every zone visible,
// Corridor is the value a too-small category maximum is stretched to and
// Ceiling the value a saturated maximum is compressed to.
type Params struct {
	Floor    float64
	Corridor float64
	Ceiling  float64
}

func DefaultParams() Params {
	return Params{
		Floor:    1e-6,
		Corridor: 0.4,
		Ceiling:  0.8,
	}
}

func ParamsFromViper() Params {
	return Params{
		Floor:    viper.GetFloat64(constants.ViperDensityFloorKey),
		Corridor: viper.GetFloat64(constants.ViperDensityCorridorKey),
		Ceiling:  viper.GetFloat64(constants.ViperDensityCeilingKey),
	}
}

// Factor returns the multiplier applied to every density of a category
// whose maximum density is max.
func (p Params) Factor(max float64) float64 {
	switch {
	case max > 0 && max < p.Corridor:
		return p.Corridor / max
	case max > p.Ceiling:
		return p.Ceiling / max
	default:
		return 1
	}
}
