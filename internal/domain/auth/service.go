package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/domain/profile"
	"github.com/moim/moim-api/internal/pkg/jwt"
	"github.com/moim/moim-api/internal/pkg/password"
)

// Service handles authentication business logic. Refresh tokens are
// signed JWTs whose jti is stored in Redis; rotation deletes the old jti
// so each refresh token is single-use.
type Service struct {
	profiles   profile.Repository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(profiles profile.Repository, jwtService *jwt.Service, redisClient *redis.Client) *Service {
	return &Service{
		profiles:   profiles,
		jwtService: jwtService,
		redis:      redisClient,
	}
}

// Signup creates a new account and signs the user in
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	existing, _ := s.profiles.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	p := &profile.Profile{
		UID:          uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Nickname:     req.Nickname,
		AgeRange:     req.AgeRange,
		Role:         policy.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, p)
}

// Login authenticates by email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	p, err := s.profiles.GetByEmail(ctx, req.Email)
	if err != nil || p == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, p.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, p)
}

// Refresh rotates the refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// The jti must still be live in Redis; a rotated or logged-out token
	// passes signature validation but is gone from the store.
	if err := s.consumeRefreshJTI(ctx, claims.ID, claims.UserID); err != nil {
		return nil, err
	}

	p, err := s.profiles.GetByUID(ctx, claims.UserID)
	if err != nil || p == nil {
		return nil, ErrUserNotFound
	}

	return s.generateTokens(ctx, p)
}

// Logout invalidates the refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil // already useless
	}
	return s.deleteRefreshJTI(ctx, claims.ID)
}

func (s *Service) generateTokens(ctx context.Context, p *profile.Profile) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(p.UID, string(p.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, jti, expiresAt, err := s.jwtService.GenerateRefreshToken(p.UID)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshJTI(ctx, jti, p.UID, time.Until(expiresAt)); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: UserResponse{
			UID:       p.UID,
			Email:     p.Email,
			Nickname:  p.Nickname,
			AgeRange:  p.AgeRange,
			Role:      string(p.Role),
			CreatedAt: p.CreatedAt,
		},
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers (handle nil redis gracefully)

func (s *Service) storeRefreshJTI(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+jti, userID.String(), ttl).Err()
}

func (s *Service) consumeRefreshJTI(ctx context.Context, jti string, userID uuid.UUID) error {
	if s.redis == nil {
		// Without Redis, refresh rotation cannot be enforced
		return ErrInvalidRefreshToken
	}
	val, err := s.redis.Get(ctx, "refresh:"+jti).Result()
	if err != nil || val != userID.String() {
		return ErrInvalidRefreshToken
	}
	return s.redis.Del(ctx, "refresh:"+jti).Err()
}

func (s *Service) deleteRefreshJTI(ctx context.Context, jti string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+jti).Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
