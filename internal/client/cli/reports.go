package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/evoting/internal/client/client"
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var ErrChainBroken = errors.New("ledger chain is broken")

func (a *App) newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <election-id>",
		Short: "Tally a closed election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				res, err := c.Results(ctx, args[0])
				if err != nil {
					return err
				}
				return a.printResults(res)
			})
		},
	}
}

func (a *App) printResults(res *pb.GetResultsResponse) error {
	fmt.Fprintf(a.out, "%s [%s]\n", res.Title, res.State)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "POSITION\tCANDIDATE\tVOTES\tPERCENT\t")
	for _, r := range res.Candidates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f%%\t\n", r.Position, r.Name, humanize.Comma(r.Votes), r.Percentage)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "total votes: %s\n", humanize.Comma(res.TotalVotes))
	if res.UndecodableVotes > 0 {
		fmt.Fprintf(a.out, "undecodable votes: %s\n", humanize.Comma(res.UndecodableVotes))
	}
	return nil
}

func (a *App) newParticipationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participation <election-id>",
		Short: "Show turnout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				p, err := c.Participation(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "registered: %s\nvoted: %s\nremaining: %s\nturnout: %.2f%%\n",
					humanize.Comma(p.TotalRegistered), humanize.Comma(p.TotalVoted),
					humanize.Comma(p.Remaining), p.Rate)
				return nil
			})
		},
	}
}

func (a *App) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <election-id>",
		Short: "Recompute the ledger hash chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				r, err := c.VerifyChain(ctx, args[0])
				if err != nil {
					return err
				}
				if !r.Valid {
					fmt.Fprintf(a.out, "chain broken at seq %d (%d votes checked)\n", r.FirstBrokenSeq, r.Checked)
					return fmt.Errorf("%w: election %s", ErrChainBroken, r.ElectionID)
				}
				fmt.Fprintf(a.out, "chain valid (%s votes checked)\n", humanize.Comma(int64(r.Checked)))
				return nil
			})
		},
	}
}

func (a *App) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <election-id>",
		Short: "Upload the ledger to object storage and print a download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				r, err := c.ExportLedger(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "exported %s votes to %s\n%s\n", humanize.Comma(int64(r.Votes)), r.Key, r.URL)
				return nil
			})
		},
	}
}
