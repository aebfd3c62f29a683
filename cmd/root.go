// Package cmd implements the replidb command-line surface: "scan" profiles
// a source database into a genome file, and "gen" synthesizes bulk-load
// text from a genome.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "replidb",
	Short: "Profile a Postgres database and synthesize a statistical twin of it",
	Long: `replidb profiles a Postgres database into a compact statistical "genome"
(per-column histograms and per-table correlation matrices) and synthesizes
arbitrary volumes of new rows from that genome, preserving primary key,
foreign key, and nullability constraints. Output is Postgres COPY text
format, ready to pipe into psql.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
