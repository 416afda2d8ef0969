package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCMD().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCMD() *cobra.Command {
	var root = &cobra.Command{
		Use:           "learnmap",
		Short:         "Generate curated learning maps with validated resources",
		SilenceUsage: true,
	}
	root.AddCommand(serveCMD(), sanitizeCMD(), versionCMD())
	return root
}

func versionCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
