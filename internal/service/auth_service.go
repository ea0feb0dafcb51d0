package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ramp-scheduler/internal/auth"
	"github.com/spec-kit/ramp-scheduler/internal/config"
	"github.com/spec-kit/ramp-scheduler/internal/domain"
	apperrors "github.com/spec-kit/ramp-scheduler/pkg/util"
)

// AuthService authenticates console operators. Operators are seeded from
// configuration at startup and live in memory for the process lifetime.
type AuthService struct {
	mu         sync.RWMutex
	byID       map[string]*domain.Operator
	byEmail    map[string]*domain.Operator
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService hashes the seeded credentials and builds the service.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	s := &AuthService{
		byID:       make(map[string]*domain.Operator),
		byEmail:    make(map[string]*domain.Operator),
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
	for _, seed := range cfg.Operators {
		role, err := parseRole(seed.Role)
		if err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(seed.Password, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		operator := &domain.Operator{
			ID:           uuid.NewString(),
			Email:        strings.ToLower(seed.Email),
			PasswordHash: hash,
			Role:         role,
		}
		s.byID[operator.ID] = operator
		s.byEmail[operator.Email] = operator
	}
	return s, nil
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// OperatorByID implements auth.OperatorLookup.
func (s *AuthService) OperatorByID(id string) (*domain.Operator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	operator, ok := s.byID[id]
	return operator, ok
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(email, password string) (*domain.Operator, string, time.Time, error) {
	s.mu.RLock()
	operator, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return operator, token, expiresAt, nil
}

// ChangePassword verifies the current secret and stores a new hash.
func (s *AuthService) ChangePassword(operatorID, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	operator, ok := s.byID[operatorID]
	if !ok {
		return apperrors.NewUnauthorized("operator not found")
	}
	if err := auth.ComparePassword(operator.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password mismatch")
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	operator.PasswordHash = hash
	return nil
}

func parseRole(raw string) (domain.OperatorRole, error) {
	switch domain.OperatorRole(strings.ToUpper(raw)) {
	case domain.OperatorRoleOperator:
		return domain.OperatorRoleOperator, nil
	case domain.OperatorRoleSupervisor:
		return domain.OperatorRoleSupervisor, nil
	case domain.OperatorRoleAdmin:
		return domain.OperatorRoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown operator role %q", raw)
	}
}
