package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jsonapi",
		Short: "JSON:API document tooling",
		Long: `Validate JSON:API documents against a declared resource schema and
inspect what a server would accept or emit for them.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
