package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// resolveString returns the first non-empty value in priority order:
// CLI flag (if explicitly set) > env var > default.
func resolveString(cmd *cobra.Command, flagName, flagVal, envVar, defaultVal string) string {
	if cmd.Flags().Changed(flagName) {
		return flagVal
	}
	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	return defaultVal
}

// resolveInt returns the first meaningful value in priority order:
// CLI flag (if explicitly set) > default.
func resolveInt(cmd *cobra.Command, flagName string, flagVal, defaultVal int) int {
	if cmd.Flags().Changed(flagName) {
		return flagVal
	}
	return defaultVal
}
