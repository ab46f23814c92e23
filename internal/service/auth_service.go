// Package service — AuthService handles staff sign-in, sign-up and JWT
// access tokens. Logout is purely client-side state clearing and has no
// server counterpart; tokens simply expire.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"
	"github.com/coverdesk/insurance-backoffice-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const bcryptCost = 12

// AuthService orchestrates authentication flows.
type AuthService struct {
	store     port.AuthStore
	jwtSecret []byte
	accessTTL time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store port.AuthStore, jwtSecret string, accessTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
		logger:    logger,
	}
}

// ============================================================
// SignUp — POST /v1/auth/signup
// ============================================================

func (s *AuthService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.StaffAccount, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.SignUp")
	defer span.End()

	if strings.TrimSpace(req.Username) == "" {
		return nil, &domain.ErrValidationFailed{Fields: map[string]string{"username": "username is required"}}
	}
	if len(req.Password) < 8 {
		return nil, &domain.ErrValidationFailed{Fields: map[string]string{"password": "password must be at least 8 characters"}}
	}

	existing, err := s.store.GetStaffByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "username already taken"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleAgent}
	}

	account, err := s.store.CreateStaff(ctx, &domain.StaffAccount{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        roles,
	})
	if err != nil {
		return nil, fmt.Errorf("create staff account: %w", err)
	}

	s.logger.Info("staff account registered",
		zap.Int64("staff_id", account.ID),
		zap.String("username", account.Username),
	)

	return account, nil
}

// ============================================================
// SignIn — POST /v1/auth/signin
// ============================================================

func (s *AuthService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.SignInResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.SignIn")
	defer span.End()
	span.SetAttributes(attribute.String("username", req.Username))

	account, err := s.store.GetStaffByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("get staff account: %w", err)
	}
	if account == nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("signin: wrong password", zap.String("username", req.Username))
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.signAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("staff signed in",
		zap.Int64("staff_id", account.ID),
		zap.String("username", account.Username),
	)

	return &domain.SignInResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Roles:    account.Roles,
	}, nil
}

// ============================================================
// Token validation — used by middleware
// ============================================================

// JWTClaims represents the custom claims in access tokens.
type JWTClaims struct {
	Sub      int64    `json:"sub"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries the given role.
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}

	return claims, nil
}

func (s *AuthService) signAccessToken(account *domain.StaffAccount) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:      account.ID,
		Username: account.Username,
		Roles:    account.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    "backoffice-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
