package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/skate-pins/internal/utils"
)

func newKeygenCmd() *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Mint an access key for the pin API",
		Long: `keygen signs an access key with JWT_SECRET, the same secret the server
verifies with.  Anon keys are what boards ship with; service keys are for
scripts.  A zero --ttl mints a key that never expires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			key, err := utils.NewAccessKey(secret, role, ttl)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, key.Token)
			if !key.Exp.IsZero() {
				fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", key.Exp.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", utils.RoleAnon, "anon or service")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "key lifetime, 0 for none")
	return cmd
}
