package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/spf13/viper"
)

const envPrefix = "INNOVACIO"

func setDefaults() {
	viper.SetDefault(constants.ViperServerAddrKey, ":8080")
	viper.SetDefault(constants.ViperServerAllowOriginsKey, []string{"http://localhost:3000"})
	viper.SetDefault(constants.ViperSecretKey, "")

	viper.SetDefault(constants.ViperLogLevelKey, "info")
	viper.SetDefault(constants.ViperLogDevelopmentKey, false)

	viper.SetDefault(constants.ViperSourceKindKey, constants.SourceKindFile)
	viper.SetDefault(constants.ViperSourceBaseURLKey, "")
	viper.SetDefault(constants.ViperSourceDirKey, "data")
	viper.SetDefault(constants.ViperSourceDSNKey, "")
	viper.SetDefault(constants.ViperSourceRetriesKey, 3)
	viper.SetDefault(constants.ViperSourceRetryIntervalKey, 500*time.Millisecond)
	viper.SetDefault(constants.ViperSourceTimeoutKey, 30*time.Second)

	viper.SetDefault(constants.ViperDensityFloorKey, 1e-6)
	viper.SetDefault(constants.ViperDensityCorridorKey, 0.4)
	viper.SetDefault(constants.ViperDensityCeilingKey, 0.8)

	viper.SetDefault(constants.ViperSearchThresholdKey, 0.6)
	viper.SetDefault(constants.ViperSearchMinTokenLenKey, 2)
	viper.SetDefault(constants.ViperSearchMinFuzzyLenKey, 4)

	viper.SetDefault(constants.ViperGraphStrictIDsKey, false)
	viper.SetDefault(constants.ViperGraphGuessLevelsKey, true)
	viper.SetDefault(constants.ViperGraphTitleSeparatorKey, " / ")
}

// Load fills the global viper instance from defaults, an optional config
// file and INNOVACIO_* environment variables (dots become underscores).
func Load(path string) error {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path == "" {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	} else {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	return validate()
}

func validate() error {
	floor := viper.GetFloat64(constants.ViperDensityFloorKey)
	corridor := viper.GetFloat64(constants.ViperDensityCorridorKey)
	ceiling := viper.GetFloat64(constants.ViperDensityCeilingKey)
	if floor <= 0 {
		return fmt.Errorf("%s must be positive, got %v", constants.ViperDensityFloorKey, floor)
	}
	if corridor <= floor || ceiling < corridor {
		return fmt.Errorf("density bounds must satisfy floor < corridor <= ceiling, got %v/%v/%v", floor, corridor, ceiling)
	}

	switch kind := viper.GetString(constants.ViperSourceKindKey); kind {
	case constants.SourceKindHTTP, constants.SourceKindFile, constants.SourceKindPostgres:
	default:
		return fmt.Errorf("unknown %s %q", constants.ViperSourceKindKey, kind)
	}

	return nil
}
