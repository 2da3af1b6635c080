package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/server"
	"github.com/orgdesa/orgdesa/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	userName  string
	userEmail string
	userRole  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts directly in the database",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	Long: `Create an account without going through the API, under the same rules
as the admin API. The password is read from the terminal, or from
ORGDESA_USER_PASSWORD when stdin is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Login email")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(models.RoleMember), "Role: admin, content_creator or member")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	_, database, err := server.Open()
	if err != nil {
		return err
	}

	user, err := service.NewUserService(database, nil).Provision(context.Background(), service.CreateUserRequest{
		Name:     userName,
		Email:    userEmail,
		Password: password,
		Role:     userRole,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Message)
			}
			return errors.New("invalid account details")
		}
		return err
	}

	fmt.Fprintf(os.Stderr, "Created %s account %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

func readPassword() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return os.Getenv("ORGDESA_USER_PASSWORD"), nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pass), nil
}
