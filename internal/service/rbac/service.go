// Package rbac is the single point of truth for privilege checks. Every
// mutating operation in the system calls through here, server-side, before
// acting; anything a client derives from roles is rendering advice only.
package rbac

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/repository"
)

const (
	displayCacheTTL     = 30 * time.Second
	displayCacheCleanup = 5 * time.Minute
)

// Gate is the authorization contract consumed by middleware and services.
type Gate interface {
	HasRole(ctx context.Context, userID uuid.UUID, role model.Role) (bool, error)
	IsStaff(ctx context.Context, userID uuid.UUID) (bool, error)
	Roles(ctx context.Context, userID uuid.UUID) ([]model.Role, error)
	DisplayRole(ctx context.Context, userID uuid.UUID) (model.DisplayRole, error)
}

type Service struct {
	repo repository.RoleRepository
	// displayCache serves the non-authoritative rendering path only.
	// HasRole and IsStaff always hit the store.
	displayCache *gocache.Cache
}

func NewService(repo repository.RoleRepository) *Service {
	return &Service{
		repo:         repo,
		displayCache: gocache.New(displayCacheTTL, displayCacheCleanup),
	}
}

func (s *Service) Roles(ctx context.Context, userID uuid.UUID) ([]model.Role, error) {
	roles, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return roles, nil
}

// HasRole is a server-trusted query over the assignments table.
func (s *Service) HasRole(ctx context.Context, userID uuid.UUID, role model.Role) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	roles, err := s.Roles(ctx, userID)
	if err != nil {
		return false, err
	}
	if role == model.RolePatient {
		// Patient is the implicit default, never an assignment.
		return len(roles) == 0, nil
	}
	for _, r := range roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

// IsStaff is the disjunction of HasRole over the staff set. A user with zero
// assignments is a patient and never staff.
func (s *Service) IsStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	roles, err := s.Roles(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r.Staff() {
			return true, nil
		}
	}
	return false, nil
}

// DisplayRole returns the label the UI renders for this user, with fixed
// precedence so affordances never imply more than the gate would allow.
// Cached briefly; never use this for an authorization decision.
func (s *Service) DisplayRole(ctx context.Context, userID uuid.UUID) (model.DisplayRole, error) {
	key := userID.String()
	if cached, ok := s.displayCache.Get(key); ok {
		return cached.(model.DisplayRole), nil
	}

	roles, err := s.Roles(ctx, userID)
	if err != nil {
		return "", err
	}

	display := model.DisplayRoleFor(roles)
	s.displayCache.Set(key, display, gocache.DefaultExpiration)
	return display, nil
}
