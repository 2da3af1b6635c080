package main

import (
	"github.com/orgdesa/orgdesa/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

// @title orgdesa API
// @version 1.0
// @description Content portal of a village organization: activities, meeting minutes and a document archive.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Start the orgdesa API server.

Environment variables:
  ORGDESA_SERVER_PORT             Server port (default: 8080)
  ORGDESA_SERVER_MODE             development or production
  ORGDESA_DATABASE_DRIVER         Database driver: sqlite, postgres
  ORGDESA_DATABASE_DSN            Database connection string
  ORGDESA_AUTH_JWT_SECRET         JWT signing secret
  ORGDESA_STORAGE_DOCUMENTS_DIR   Root directory of archived files
  ADMIN_EMAIL                     Bootstrap admin email
  ADMIN_PASSWORD                  Bootstrap admin password`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.RunWithSignalHandling(server.Config{
			Port:    servePort,
			Version: Version,
		})
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}
