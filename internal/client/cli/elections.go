package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/evoting/internal/client/client"
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *App) newElectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elections",
		Short: "List, inspect and create elections",
	}
	cmd.AddCommand(a.newListElectionsCmd(), a.newShowElectionCmd(), a.newCreateElectionCmd())
	return cmd
}

func (a *App) newListElectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List elections visible to the caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				elections, err := c.ListElections(ctx)
				if err != nil {
					return err
				}
				if len(elections) == 0 {
					fmt.Fprintln(a.out, "no elections")
					return nil
				}
				w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tSTATE\tSTART\tEND")
				for _, e := range elections {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.State,
						e.StartAt.Format(time.RFC3339), e.EndAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
}

func (a *App) newShowElectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <election-id>",
		Short: "Show an election with its positions and candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				resp, err := c.GetElection(ctx, args[0])
				if err != nil {
					return err
				}
				a.printElection(resp)
				return nil
			})
		},
	}
}

func (a *App) printElection(resp *pb.GetElectionResponse) {
	e := resp.Election
	fmt.Fprintf(a.out, "%s [%s]\n", e.Title, e.State)
	if e.Description != "" {
		fmt.Fprintln(a.out, e.Description)
	}
	fmt.Fprintf(a.out, "window: %s (%s) .. %s (%s)\n",
		e.StartAt.Format(time.RFC3339), humanize.RelTime(e.StartAt, a.now(), "ago", "from now"),
		e.EndAt.Format(time.RFC3339), humanize.RelTime(e.EndAt, a.now(), "ago", "from now"))
	fmt.Fprintf(a.out, "anonymous: %t\n", e.Anonymous)

	byPosition := make(map[string][]pb.Candidate)
	for _, c := range resp.Candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
	}
	for _, p := range resp.Positions {
		fmt.Fprintf(a.out, "\n%s (choose up to %d) %s\n", p.Name, p.MaxSelectable, p.ID)
		for _, c := range byPosition[p.ID] {
			fmt.Fprintf(a.out, "  %d. %s %s\n", c.OrderNumber, candidateName(c), c.ID)
		}
	}
}

func candidateName(c pb.Candidate) string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

func (a *App) newCreateElectionCmd() *cobra.Command {
	var (
		req        pb.CreateElectionRequest
		start, end string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending election",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.StartAt, err = time.Parse(time.RFC3339, start); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			if req.EndAt, err = time.Parse(time.RFC3339, end); err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				e, err := c.CreateElection(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "created election %s [%s]\n", e.ID, e.State)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.TenantID, "tenant", "", "owning tenant (super admin only, defaults to the caller's tenant)")
	f.StringVar(&req.Title, "title", "", "election title")
	f.StringVar(&req.Description, "description", "", "election description")
	f.StringVar(&start, "start", "", "voting window start, RFC3339")
	f.StringVar(&end, "end", "", "voting window end, RFC3339")
	f.StringVar(&req.VotingType, "type", "", "voting type")
	f.BoolVar(&req.Anonymous, "anonymous", true, "do not keep voter ids in the ledger")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (a *App) newAddPositionCmd() *cobra.Command {
	var (
		name   string
		maxSel int
	)
	cmd := &cobra.Command{
		Use:   "add-position <election-id>",
		Short: "Add a position to a pending election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				p, err := c.AddPosition(ctx, args[0], name, maxSel)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "added position %s %s\n", p.Name, p.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "position name")
	cmd.Flags().IntVar(&maxSel, "max", 1, "maximum candidates a voter may select")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) newAddCandidateCmd() *cobra.Command {
	var req pb.AddCandidateRequest
	cmd := &cobra.Command{
		Use:   "add-candidate <position-id>",
		Short: "Add a candidate to a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PositionID = args[0]
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				cand, err := c.AddCandidate(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "added candidate %s %s\n", candidateName(*cand), cand.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first", "", "first name")
	f.StringVar(&req.LastName, "last", "", "last name")
	f.StringVar(&req.ListID, "list", "", "party list id")
	f.StringVar(&req.Description, "description", "", "candidate description")
	f.IntVar(&req.OrderNumber, "order", 0, "ballot order number")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}

func (a *App) newUpdatePositionCmd() *cobra.Command {
	var (
		name   string
		maxSel int
	)
	cmd := &cobra.Command{
		Use:   "update-position <position-id>",
		Short: "Rename a position or change its selection limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				p, err := c.UpdatePosition(ctx, args[0], name, maxSel)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "updated position %s %s (max %d)\n", p.Name, p.ID, p.MaxSelectable)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "position name")
	cmd.Flags().IntVar(&maxSel, "max", 1, "maximum candidates a voter may select")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// newUpdateCandidateCmd replaces every editable field, so unset flags clear
// the optional ones.
func (a *App) newUpdateCandidateCmd() *cobra.Command {
	var req pb.UpdateCandidateRequest
	cmd := &cobra.Command{
		Use:   "update-candidate <candidate-id>",
		Short: "Rewrite a candidate of a pending election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.CandidateID = args[0]
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				cand, err := c.UpdateCandidate(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "updated candidate %s %s\n", candidateName(*cand), cand.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first", "", "first name")
	f.StringVar(&req.LastName, "last", "", "last name")
	f.StringVar(&req.ListID, "list", "", "party list id")
	f.StringVar(&req.Description, "description", "", "candidate description")
	f.IntVar(&req.OrderNumber, "order", 0, "ballot order number")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}
