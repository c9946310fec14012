package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ougirez/mapa-innovacio/internal/pkg/config"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
	"github.com/ougirez/mapa-innovacio/internal/service/atlas"
	"github.com/ougirez/mapa-innovacio/internal/service/loader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagConfig string
	flagFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "innovacio",
	Short:         "Innovation programs map: dataset loader, densities and search",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		if err := config.Load(flagConfig); err != nil {
			return err
		}
		return logger.Init(viper.GetString(constants.ViperLogLevelKey), viper.GetBool(constants.ViperLogDevelopmentKey))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(tokenCmd)
}

// newAtlas wires the configured source into a fresh, empty service.
func newAtlas(ctx context.Context) (*atlas.Service, func(), error) {
	l, closeFn, err := loader.NewFromViper(ctx)
	if err != nil {
		return nil, nil, err
	}
	return atlas.NewService(l, atlas.OptionsFromViper()), closeFn, nil
}

// loadedAtlas is newAtlas plus a first load that must succeed.
func loadedAtlas(ctx context.Context) (*atlas.Service, func(), error) {
	svc, closeFn, err := newAtlas(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err = svc.Load(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}
