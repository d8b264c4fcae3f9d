package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/evoting/internal/client/client"
	pb "github.com/dmitrijs2005/evoting/internal/proto"
	"github.com/spf13/cobra"
)

func (a *App) newTenantsCmd() *cobra.Command {
	var req pb.CreateTenantRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant (super admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				t, err := c.CreateTenant(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "created tenant %s %s (%s)\n", t.Name, t.ID, t.Timezone)
				return nil
			})
		},
	}
	f := create.Flags()
	f.StringVar(&req.Name, "name", "", "tenant name")
	f.StringVar(&req.ContactEmail, "email", "", "contact email")
	f.StringVar(&req.Timezone, "timezone", "", "IANA timezone, UTC when empty")
	f.StringVar(&req.Country, "country", "", "country")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")

	cmd := &cobra.Command{Use: "tenants", Short: "Manage tenants"}
	cmd.AddCommand(create)
	return cmd
}

func (a *App) newUsersCmd() *cobra.Command {
	var req pb.CreateUserRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				u, err := c.CreateUser(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "created %s %s %s\n", u.Role, u.Email, u.ID)
				return nil
			})
		},
	}
	f := create.Flags()
	f.StringVar(&req.TenantID, "tenant", "", "tenant id, defaults to the caller's tenant")
	f.StringVar(&req.Email, "email", "", "login email")
	f.StringVar(&req.FirstName, "first", "", "first name")
	f.StringVar(&req.LastName, "last", "", "last name")
	f.StringVar(&req.Role, "role", "VOTANTE", "SUPER_ADMIN, TENANT_ADMIN or VOTANTE")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("first")

	cmd := &cobra.Command{Use: "users", Short: "Manage user accounts"}
	cmd.AddCommand(create)
	return cmd
}

func (a *App) newListsCmd() *cobra.Command {
	var req pb.CreateListRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a candidate list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				l, err := c.CreateList(ctx, &req)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "created list %s %s\n", l.Name, l.ID)
				return nil
			})
		},
	}
	f := create.Flags()
	f.StringVar(&req.TenantID, "tenant", "", "tenant id, defaults to the caller's tenant")
	f.StringVar(&req.Name, "name", "", "list name")
	f.StringVar(&req.Description, "description", "", "list description")
	f.StringVar(&req.PrimaryColor, "color", "", "primary color")
	_ = create.MarkFlagRequired("name")

	cmd := &cobra.Command{Use: "lists", Short: "Manage candidate lists"}
	cmd.AddCommand(create)
	return cmd
}
