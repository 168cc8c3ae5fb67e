package model

import "time"

// User represents a registered account. Users own channels, so a user is
// also the "channel" side of a subscription.
type User struct {
	ID             string    `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"fullName"`
	PasswordHashed string    `db:"password_hashed" json:"-"`
	AvatarURL      string    `db:"avatar_url" json:"avatar"`
	CoverImageURL  *string   `db:"cover_image_url" json:"coverImage"`
	RefreshToken   *string   `db:"refresh_token" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the public projection used in lists.
type UserSummary struct {
	ID        string `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FullName  string `db:"full_name" json:"fullName"`
	AvatarURL string `db:"avatar_url" json:"avatar"`
}

// ChannelProfile is a user seen as a channel by a viewer.
type ChannelProfile struct {
	ID                        string  `json:"id"`
	Username                  string  `json:"username"`
	FullName                  string  `json:"fullName"`
	Email                     string  `json:"email"`
	AvatarURL                 string  `json:"avatar"`
	CoverImageURL             *string `json:"coverImage"`
	SubscribersCount          int64   `json:"subscribersCount"`
	ChannelsSubscribedToCount int64   `json:"channelsSubscribedToCount"`
	IsSubscribed              bool    `json:"isSubscribed"`
}

// RegisterInput carries a sign-up request after multipart parsing.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *MediaFile
	CoverImage *MediaFile
}

// LoginRequest accepts either a username or an email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by login; tokens are also set as cookies.
type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UpdateAccountRequest updates profile fields. Nil fields are left unchanged.
type UpdateAccountRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

// ChangePasswordRequest replaces the password after checking the old one.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// User field limits
const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	FullNameMinLength = 3
	FullNameMaxLength = 50
	PasswordMinLength = 6
	PasswordMaxLength = 100
	EmailMaxLength    = 255

	// WatchHistoryLimit caps how many entries the history endpoint returns.
	WatchHistoryLimit = 100
)

var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrUsernameExists     = newError(ErrConflict, "username already exists")
	ErrEmailExists        = newError(ErrConflict, "email already exists")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid username or password")
	ErrIncorrectPassword  = newError(ErrInvalidArgument, "old password is incorrect")
	ErrAvatarRequired     = newError(ErrInvalidArgument, "avatar file is required")
)
