package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/orgdesa/orgdesa/docs" // Load swagger docs
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "orgdesa",
	Short: "orgdesa - Village organization portal",
	Long:  `orgdesa serves the public portal and content API of a village organization.`,
	Example: `  # Start the API server
  orgdesa serve --port 8080

  # Create the first administrator
  orgdesa user create --name "Admin Desa" --email admin@desa.id --role admin

  # Fill an empty database with demo content
  orgdesa seed`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
