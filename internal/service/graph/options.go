package graph

import (
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/spf13/viper"
)

type Options struct {
	// Floor is the initial density of every zone.
	Floor float64
	// TitleSeparator joins several titles of the same program/centre pair.
	TitleSeparator string
	// StrictIDs turns duplicate program or centre ids into a fatal error
	// instead of keeping the last record.
	StrictIDs bool
	// GuessLevels fills empty program levels from name and description.
	GuessLevels bool
}

func DefaultOptions() Options {
	return Options{
		Floor:          1e-6,
		TitleSeparator: " / ",
		GuessLevels:    true,
	}
}

func OptionsFromViper() Options {
	return Options{
		Floor:          viper.GetFloat64(constants.ViperDensityFloorKey),
		TitleSeparator: viper.GetString(constants.ViperGraphTitleSeparatorKey),
		StrictIDs:      viper.GetBool(constants.ViperGraphStrictIDsKey),
		GuessLevels:    viper.GetBool(constants.ViperGraphGuessLevelsKey),
	}
}
