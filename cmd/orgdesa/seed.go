package main

import (
	"fmt"
	"os"
	"time"

	"github.com/orgdesa/orgdesa/internal/db"
	"github.com/orgdesa/orgdesa/internal/server"
	"github.com/spf13/cobra"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with demo content",
	Long: `Creates a demo organization profile, one account per role and sample
activities, meeting minutes and documents. Does nothing when users exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, database, err := server.Open()
		if err != nil {
			return err
		}

		res, err := db.Seed(database, seedPassword, time.Now())
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		if res.Skipped {
			fmt.Fprintln(os.Stderr, "Database already has users; nothing seeded.")
			return nil
		}
		for _, u := range res.Users {
			fmt.Printf("%-16s %s\n", u.Role, u.Email)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "password", "Password for every demo account")
}
