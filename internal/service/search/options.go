package search

import (
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/spf13/viper"
)

type Options struct {
	// Threshold is the lowest token similarity counted as a match.
	Threshold float64
	// MinTokenLen drops shorter tokens from documents and queries.
	MinTokenLen int
	// MinFuzzyLen is the shortest query term, in runes, allowed to match by
	// edit distance. Shorter terms need an exact or prefix match.
	MinFuzzyLen int
}

func DefaultOptions() Options {
	return Options{
		Threshold:   0.6,
		MinTokenLen: 2,
		MinFuzzyLen: 4,
	}
}

func OptionsFromViper() Options {
	return Options{
		Threshold:   viper.GetFloat64(constants.ViperSearchThresholdKey),
		MinTokenLen: viper.GetInt(constants.ViperSearchMinTokenLenKey),
		MinFuzzyLen: viper.GetInt(constants.ViperSearchMinFuzzyLenKey),
	}
}
