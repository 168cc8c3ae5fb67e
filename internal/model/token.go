package model

// TokenPair is returned after login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until the access token expires
}

// RefreshRequest carries a refresh token in the body when the cookie is absent.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Cookie names shared by the auth handlers and middleware.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Token errors. All unwrap to ErrUnauthorized.
var (
	ErrTokenMissing       = newError(ErrUnauthorized, "unauthorized request")
	ErrTokenInvalid       = newError(ErrUnauthorized, "invalid token")
	ErrTokenExpired       = newError(ErrUnauthorized, "token has expired")
	ErrRefreshTokenReused = newError(ErrUnauthorized, "refresh token is expired or used")
)
