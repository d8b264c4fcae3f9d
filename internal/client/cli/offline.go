package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/cryptox"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/spf13/cobra"
)

var ErrMissingSecret = errors.New("signing secret is not configured")

// newKeygenCmd creates the key ring on first use and rotates it afterwards.
// Older keys are kept so ballots sealed before the rotation stay readable.
func (a *App) newKeygenCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create or rotate the ballot key ring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pass []byte
			if !plain {
				p, err := GetPassword(a.out, "Key ring passphrase")
				if err != nil {
					return err
				}
				pass = p
				defer common.WipeByteArray(pass)
			}

			path := a.cfg.KeyRingPath
			ring, err := cryptox.LoadKeyRing(path, pass)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				ring = cryptox.NewKeyRing()
			case err != nil:
				return fmt.Errorf("load key ring: %w", err)
			}

			id, err := ring.Rotate(a.now())
			if err != nil {
				return err
			}
			if err := cryptox.SaveKeyRing(path, ring, pass); err != nil {
				return fmt.Errorf("save key ring: %w", err)
			}

			fmt.Fprintf(a.out, "active key %s (%d keys) written to %s\n", id, len(ring.IDs()), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "no-passphrase", false, "store key material unsealed")
	return cmd
}

func (a *App) newTokenCmd() *cobra.Command {
	var (
		userID   string
		tenantID string
		role     string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.SecretKey == "" {
				return ErrMissingSecret
			}
			r := models.Role(role)
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			var tenant *string
			if tenantID != "" {
				tenant = &tenantID
			}

			tok, err := auth.GenerateToken(userID, tenant, r, []byte(a.cfg.SecretKey), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, tok)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&userID, "user", "", "user id (subject)")
	f.StringVar(&tenantID, "tenant", "", "tenant id")
	f.StringVar(&role, "role", string(models.RoleVoter), "SUPER_ADMIN, TENANT_ADMIN or VOTANTE")
	f.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
