package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kubev2v/query-engine/internal/config"
)

func NewRootCommand(cfg *config.Configuration) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "query-engine",
		Short: "Query engine serving filtered, paginated and hydrated records",
		Long: `query-engine exposes the tables of its catalog over HTTP. Listings accept a
textual filter, a free text search, sorting, pagination and a list of relation
paths hydrated in batch, one query per relation and level.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewRunCommand(cfg))

	return rootCmd
}
