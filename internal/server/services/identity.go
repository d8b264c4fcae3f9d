package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/logging"
	"github.com/dmitrijs2005/evoting/internal/server/auth"
	"github.com/dmitrijs2005/evoting/internal/server/repositories/repomanager"
)

// IdentityService turns a bearer token into a Principal. The token only
// names the user; role and tenant are taken from the stored account so that
// demotions and deactivations apply immediately.
type IdentityService struct {
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	log         logging.Logger
}

func NewIdentityService(m repomanager.RepositoryManager, secret string, log logging.Logger) *IdentityService {
	return &IdentityService{repomanager: m, jwtSecret: []byte(secret), log: log.With("module", "identity")}
}

// Authenticate verifies token and resolves the calling user. It returns
// common.ErrTokenExpired / common.ErrInvalidToken for bad tokens and
// common.ErrorUnauthorized for unknown or inactive users.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return auth.Principal{}, err
	}
	if !validID(claims.UserID) {
		return auth.Principal{}, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return auth.Principal{}, fmt.Errorf("%w: unknown user", common.ErrorUnauthorized)
		}
		return auth.Principal{}, storageError(err)
	}
	if !user.Active {
		s.log.Warn(ctx, "inactive user presented a token", "user_id", user.ID)
		return auth.Principal{}, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInactiveUser)
	}

	return auth.Principal{UserID: user.ID, TenantID: user.TenantID, Role: user.Role}, nil
}
