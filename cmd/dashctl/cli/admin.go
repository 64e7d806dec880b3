package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"eventadmin/internal/domain/admins"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	adminEmail string
	adminName  string
	adminRole  string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an account that can sign in to the admin panel.
The password is prompted for, or read from stdin when piped.

Example:
  dashctl admin create --email ops@example.com --name "Ops Team"`,
	Args: cobra.NoArgs,
	RunE: runAdminCreate,
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "sign-in email")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "display name shown in the dashboard greeting")
	adminCreateCmd.Flags().StringVar(&adminRole, "role", "admin", "role claim carried by the session")
	adminCreateCmd.MarkFlagRequired("email")

	adminCmd.AddCommand(adminCreateCmd)
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(adminEmail)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", adminEmail)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	admin := &admins.Admin{
		Email:       email,
		DisplayName: strings.TrimSpace(adminName),
		Role:        adminRole,
	}
	if err := admin.Password.Set(password); err != nil {
		return err
	}

	pool, err := openPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := admins.NewRepository(pool).Create(cmd.Context(), admin); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", admin.Email, admin.ID)
	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// piped input
	var password string
	if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
		return "", err
	}
	return password, nil
}
