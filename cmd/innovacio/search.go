package main

import (
	"fmt"
	"strings"

	"github.com/ougirez/mapa-innovacio/internal/service/search"
	"github.com/spf13/cobra"
)

var flagLimit int

var searchCmd = &cobra.Command{
	Use:       "search <programs|centres> <query>",
	Short:     "Load the datasets once and run a fuzzy search",
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{"programs", "centres"},
	RunE:      runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of results (0: all)")
}

// CLISearch is the search command output.
type CLISearch struct {
	Index   string          `json:"index"`
	Query   string          `json:"q"`
	Results []search.Result `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	index, q := args[0], strings.Join(args[1:], " ")
	if index != "programs" && index != "centres" {
		return fmt.Errorf("unknown index %q: must be programs or centres", index)
	}

	svc, closeFn, err := loadedAtlas(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	var results []search.Result
	if index == "programs" {
		results, err = svc.SearchPrograms(q, flagLimit)
	} else {
		results, err = svc.SearchCentres(q, flagLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagFormat == "text" {
		formatResultsText(out, results)
		return nil
	}
	return writeJSON(out, CLISearch{Index: index, Query: q, Results: results})
}
