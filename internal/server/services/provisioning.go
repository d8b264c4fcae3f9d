package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TenantInput describes a new organization.
type TenantInput struct {
	Name         string
	ContactEmail string
	Timezone     string
	Country      string
}

// UserInput describes a new account. TenantID must be empty for super admins
// and set for everyone else; tenant admins may leave it empty to mean their
// own tenant.
type UserInput struct {
	TenantID  string
	Email     string
	FirstName string
	LastName  string
	Role      models.Role
}

// ListInput describes a candidate list ("lista") of a tenant.
type ListInput struct {
	TenantID     string
	Name         string
	Description  string
	PrimaryColor string
}

// ProvisioningService creates tenants, their accounts and their candidate
// lists.
type ProvisioningService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewProvisioningService(m repomanager.RepositoryManager, log logging.Logger) *ProvisioningService {
	return &ProvisioningService{repomanager: m, log: log.With("module", "provisioning")}
}

// CreateTenant is reserved to super admins.
func (s *ProvisioningService) CreateTenant(ctx context.Context, p auth.Principal, in TenantInput) (*models.Tenant, error) {
	if !p.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only super admins create tenants", common.ErrorForbidden)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: tenant name is required", common.ErrorInvalidInput)
	}
	if _, err := mail.ParseAddress(in.ContactEmail); err != nil {
		return nil, fmt.Errorf("%w: contact email %q", common.ErrorInvalidInput, in.ContactEmail)
	}
	if in.Timezone == "" {
		in.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(in.Timezone); err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", common.ErrorInvalidInput, in.Timezone)
	}

	t := &models.Tenant{
		ID:           uuid.NewString(),
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		Timezone:     in.Timezone,
		Country:      in.Country,
		Active:       true,
	}
	if _, err := s.repomanager.Tenants(s.repomanager.Conn()).Create(ctx, t); err != nil {
		return nil, storageError(err)
	}
	s.log.Info(ctx, "tenant created", "tenant_id", t.ID, "by", p.UserID)
	return t, nil
}

// CreateUser opens an account. Super admins may create any role; tenant
// admins create voters and fellow admins of their own tenant.
func (s *ProvisioningService) CreateUser(ctx context.Context, p auth.Principal, in UserInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorInvalidInput, in.Role)
	}
	if in.TenantID == "" && in.Role != models.RoleSuperAdmin && p.TenantID != nil {
		in.TenantID = *p.TenantID
	}

	var tenantID *string
	switch {
	case in.Role == models.RoleSuperAdmin:
		if !p.IsSuperAdmin() {
			return nil, fmt.Errorf("%w: only super admins create super admins", common.ErrorForbidden)
		}
		if in.TenantID != "" {
			return nil, fmt.Errorf("%w: super admins belong to no tenant", common.ErrorInvalidInput)
		}
	case in.TenantID == "":
		return nil, fmt.Errorf("%w: tenant is required", common.ErrorInvalidInput)
	default:
		if err := checkID(common.ErrorNotFound, "tenant", in.TenantID); err != nil {
			return nil, err
		}
		if err := auth.Authorize(p, auth.ActionManageMembers, in.TenantID); err != nil {
			return nil, err
		}
		tenantID = &in.TenantID
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email %q", common.ErrorInvalidInput, in.Email)
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", common.ErrorInvalidInput)
	}

	db := s.repomanager.Conn()
	if tenantID != nil {
		if err := s.activeTenant(ctx, *tenantID); err != nil {
			return nil, err
		}
	}
	_, err := s.repomanager.Users(db).GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: email %q already registered", common.ErrorConflict, email)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, storageError(err)
	}

	u := &models.User{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		Active:    true,
	}
	if _, err := s.repomanager.Users(db).Create(ctx, u); err != nil {
		return nil, storageError(err)
	}
	s.log.Info(ctx, "user created", "user_id", u.ID, "role", u.Role, "by", p.UserID)
	return u, nil
}

// CreateList adds a candidate list to a tenant.
func (s *ProvisioningService) CreateList(ctx context.Context, p auth.Principal, in ListInput) (*models.List, error) {
	if in.TenantID == "" && p.TenantID != nil {
		in.TenantID = *p.TenantID
	}
	if in.TenantID == "" {
		return nil, fmt.Errorf("%w: tenant is required", common.ErrorInvalidInput)
	}
	if err := checkID(common.ErrorNotFound, "tenant", in.TenantID); err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.ActionManageMembers, in.TenantID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: list name is required", common.ErrorInvalidInput)
	}
	if err := s.activeTenant(ctx, in.TenantID); err != nil {
		return nil, err
	}

	l := &models.List{
		ID:           uuid.NewString(),
		TenantID:     in.TenantID,
		Name:         in.Name,
		Description:  in.Description,
		PrimaryColor: in.PrimaryColor,
	}
	if _, err := s.repomanager.Lists(s.repomanager.Conn()).Create(ctx, l); err != nil {
		return nil, storageError(err)
	}
	return l, nil
}

func (s *ProvisioningService) activeTenant(ctx context.Context, id string) error {
	t, err := s.repomanager.Tenants(s.repomanager.Conn()).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: tenant %s", common.ErrorNotFound, id)
		}
		return storageError(err)
	}
	if !t.Active {
		return fmt.Errorf("%w: tenant %s is inactive", common.ErrorInvalidInput, id)
	}
	return nil
}
