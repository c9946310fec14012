package main

import (
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/service/atlas"
	"github.com/ougirez/mapa-innovacio/internal/service/density"
	"github.com/spf13/cobra"
)

var (
	flagPrograms []string
	flagYears    []string
	flagCategory string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Load the datasets once and print counts and zone densities",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringSliceVar(&flagPrograms, "programs", nil, "program ids to select (default: all)")
	statsCmd.Flags().StringSliceVar(&flagYears, "years", nil, "school years to select (default: all)")
	statsCmd.Flags().StringVar(&flagCategory, "category", "", "zone category: ST|SEZ (default: both)")
}

// CLIStats is the stats command output.
type CLIStats struct {
	Status atlas.Status          `json:"status"`
	Zones  []density.ZoneSummary `json:"zones"`
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, closeFn, err := loadedAtlas(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if len(flagPrograms) > 0 || len(flagYears) > 0 {
		f := density.Filter{Programs: flagPrograms, Years: flagYears}
		if len(f.Programs) == 0 {
			f.Programs = svc.Status().Filter.Programs
		}
		if _, err = svc.Recompute(ctx, f); err != nil {
			return err
		}
	}

	zones, err := svc.Zones(domain.ZoneCategory(flagCategory))
	if err != nil {
		return err
	}

	stats := CLIStats{Status: svc.Status(), Zones: make([]density.ZoneSummary, 0, len(zones))}
	for _, z := range zones {
		stats.Zones = append(stats.Zones, z.ZoneSummary)
	}

	out := cmd.OutOrStdout()
	if flagFormat == "text" {
		formatStatsText(out, stats)
		return nil
	}
	return writeJSON(out, stats)
}
