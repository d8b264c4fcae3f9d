package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/evoting/internal/client/client"
	"github.com/dmitrijs2005/evoting/internal/client/config"
	"github.com/spf13/cobra"
)

// Dialer opens a connection to the voting server.
type Dialer func(addr, token string) (client.Client, error)

func dialGRPC(addr, token string) (client.Client, error) {
	return client.NewVotingClient(addr, token)
}

type rootFlags struct {
	configPath string
	addr       string
	token      string
	timeout    time.Duration
	keyRing    string
	secret     string
}

// App carries what every command needs: resolved config, IO and the dialer.
type App struct {
	in    *bufio.Reader
	out   io.Writer
	cfg   *config.Config
	flags rootFlags
	dial  Dialer
	now   func() time.Time
}

// NewRootCmd builds the votectl command tree.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	return newRootCmd(&App{
		in:   bufio.NewReader(in),
		out:  out,
		dial: dialGRPC,
		now:  time.Now,
	})
}

func newRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:               "votectl",
		Short:             "Operate the e-voting server",
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", "JSON config file")
	pf.StringVarP(&a.flags.addr, "addr", "a", "", "server address host:port")
	pf.StringVarP(&a.flags.token, "token", "t", "", "access token")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-request timeout")
	pf.StringVarP(&a.flags.keyRing, "keyring", "k", "", "ballot key ring file")
	pf.StringVarP(&a.flags.secret, "secret", "s", "", "JWT signing secret")

	root.AddCommand(
		a.newKeygenCmd(),
		a.newTokenCmd(),
		a.newElectionsCmd(),
		a.newAddPositionCmd(),
		a.newAddCandidateCmd(),
		a.newUpdatePositionCmd(),
		a.newUpdateCandidateCmd(),
		a.newTransitionCmd(client.TransitionActivate, "Open an election for voting"),
		a.newTransitionCmd(client.TransitionClose, "Close an active election"),
		a.newTransitionCmd(client.TransitionCancel, "Cancel an election"),
		a.newRegisterCmd(),
		a.newStatusCmd(),
		a.newCastCmd(),
		a.newResultsCmd(),
		a.newParticipationCmd(),
		a.newVerifyCmd(),
		a.newExportCmd(),
		a.newTenantsCmd(),
		a.newUsersCmd(),
		a.newListsCmd(),
	)
	return root
}

// loadConfig resolves defaults, file and environment, then applies flags
// the user set explicitly.
func (a *App) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := cmd.Flags()
	if fs.Changed("addr") {
		cfg.ServerEndpointAddr = a.flags.addr
	}
	if fs.Changed("token") {
		cfg.AccessToken = a.flags.token
	}
	if fs.Changed("timeout") {
		cfg.RequestTimeout = a.flags.timeout
	}
	if fs.Changed("keyring") {
		cfg.KeyRingPath = a.flags.keyRing
	}
	if fs.Changed("secret") {
		cfg.SecretKey = a.flags.secret
	}

	a.cfg = cfg
	return nil
}

// withClient dials the server and runs fn under the request timeout.
func (a *App) withClient(cmd *cobra.Command, fn func(ctx context.Context, c client.Client) error) error {
	c, err := a.dial(a.cfg.ServerEndpointAddr, a.cfg.AccessToken)
	if err != nil {
		return fmt.Errorf("connect %s: %w", a.cfg.ServerEndpointAddr, err)
	}
	defer c.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.RequestTimeout)
		defer cancel()
	}
	return fn(ctx, c)
}
