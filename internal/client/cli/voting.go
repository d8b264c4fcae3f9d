package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/evoting/internal/client/client"
	"github.com/spf13/cobra"
)

var ErrCastAborted = errors.New("cast aborted")

func (a *App) newTransitionCmd(t client.Transition, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(t) + " <election-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				e, err := c.Transition(ctx, t, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "election %s is now %s\n", e.ID, e.State)
				return nil
			})
		},
	}
}

func (a *App) newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <election-id> <voter-id>...",
		Short: "Register voters for a pending election",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				added, err := c.RegisterVoters(ctx, args[0], args[1:])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "registered %d new voters (%d already present)\n", added, len(args)-1-added)
				return nil
			})
		},
	}
}

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <election-id>",
		Short: "Show the caller's registration and voting status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				st, err := c.Status(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "election state: %s\nregistered: %t\nhas voted: %t\ncan vote: %t\n",
					st.ElectionState, st.Registered, st.HasVoted, st.CanVote)
				return nil
			})
		},
	}
}

func (a *App) newCastCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cast <election-id> <candidate-id>...",
		Short: "Cast a ballot; a vote cannot be changed once recorded",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			electionID, choices := args[0], args[1:]
			if !yes {
				ok, err := Confirm(a.in, fmt.Sprintf("Cast ballot for %s in election %s?", strings.Join(choices, ", "), electionID), a.out)
				if err != nil {
					return err
				}
				if !ok {
					return ErrCastAborted
				}
			}
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				resp, err := c.CastVote(ctx, electionID, choices)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "vote %s recorded at %s\nchain hash: %s\n",
					resp.VoteID, resp.CastAt.Format(time.RFC3339), resp.ChainHash)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
