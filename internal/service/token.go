package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/config"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

// AccessClaims identify the user on every authenticated request.
type AccessClaims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims carry only the user ID; RegisteredClaims.ID makes every
// issued refresh token unique.
type RefreshClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues access/refresh pairs and rotates refresh tokens. The
// user record holds at most one active refresh token.
type TokenService struct {
	users repository.UserRepository
	cfg   config.TokenConfig
}

func NewTokenService(users repository.UserRepository, cfg config.TokenConfig) *TokenService {
	return &TokenService{users: users, cfg: cfg}
}

// Config exposes the token settings the HTTP layer needs for cookies.
func (s *TokenService) Config() config.TokenConfig {
	return s.cfg
}

// IssueTokenPair signs a new pair and stores the refresh token, replacing
// any previous one.
func (s *TokenService) IssueTokenPair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	pair, err := s.signPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return pair, nil
}

// RotateRefresh exchanges a refresh token for a new pair. The stored token is
// swapped atomically, so a token that was already rotated (or raced by a
// concurrent rotation) fails with ErrRefreshTokenReused.
func (s *TokenService) RotateRefresh(ctx context.Context, refreshToken string) (*model.TokenPair, *model.User, error) {
	if refreshToken == "" {
		return nil, nil, model.ErrTokenMissing
	}

	claims := &RefreshClaims{}
	if err := s.parse(refreshToken, claims, s.cfg.RefreshTokenSecret); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, model.ErrTokenInvalid
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	pair, err := s.signPair(user)
	if err != nil {
		return nil, nil, err
	}

	swapped, err := s.users.SwapRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !swapped {
		logrus.WithField("user_id", user.ID).Warn("[Token] Rotate REJECTED: refresh token not current")
		return nil, nil, model.ErrRefreshTokenReused
	}

	user.RefreshToken = &pair.RefreshToken
	return pair, user, nil
}

// ValidateAccess verifies an access token and returns the user ID. A token
// for a user that no longer exists yields ErrUserNotFound.
func (s *TokenService) ValidateAccess(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", model.ErrTokenMissing
	}

	claims := &AccessClaims{}
	if err := s.parse(accessToken, claims, s.cfg.AccessTokenSecret); err != nil {
		return "", err
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Revoke clears the stored refresh token; later rotations fail.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}

func (s *TokenService) signPair(user *model.User) (*model.TokenPair, error) {
	now := time.Now()

	access := AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpiry)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenExpiry)),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(s.cfg.RefreshTokenSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTokenExpiry / time.Second),
	}, nil
}

type userClaims interface {
	jwt.Claims
	subject() string
}

func (c *AccessClaims) subject() string  { return c.UserID }
func (c *RefreshClaims) subject() string { return c.UserID }

// parse verifies signature, algorithm and expiry, mapping every failure to
// an Unauthorized token error.
func (s *TokenService) parse(raw string, claims userClaims, secret string) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.ErrTokenExpired
		}
		return model.ErrTokenInvalid
	}
	if ValidateID(claims.subject()) != nil {
		return model.ErrTokenInvalid
	}
	return nil
}
