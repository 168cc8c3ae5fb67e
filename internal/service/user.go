package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

const entityUser = "user"

// UserService handles business logic for user operations
type UserService struct {
	repo          repository.UserRepository
	subscriptions repository.SubscriptionRepository
	media         MediaStore
	cascade       *CascadeEngine
}

func NewUserService(repo repository.UserRepository, subscriptions repository.SubscriptionRepository, media MediaStore, cascade *CascadeEngine) *UserService {
	return &UserService{
		repo:          repo,
		subscriptions: subscriptions,
		media:         media,
		cascade:       cascade,
	}
}

// Register validates the sign-up, uploads the avatar (and optional cover)
// and creates the account. Uploaded media is released if creation fails.
func (s *UserService) Register(ctx context.Context, in *model.RegisterInput) (*model.User, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	fullName, err := requireLength("fullName", in.FullName, model.FullNameMinLength, model.FullNameMaxLength)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Avatar == nil {
		return nil, model.ErrAvatarRequired
	}

	// Checked up front so a duplicate does not cost an upload; the unique
	// constraints still decide races.
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}
	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	in.Avatar.Kind = model.MediaAvatar
	avatar, err := s.media.Upload(ctx, in.Avatar)
	if err != nil {
		return nil, err
	}
	uploaded := []string{avatar.URL}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		FullName:       fullName,
		PasswordHashed: string(hashedPassword),
		AvatarURL:      avatar.URL,
	}

	if in.CoverImage != nil {
		in.CoverImage.Kind = model.MediaCover
		cover, err := s.media.Upload(ctx, in.CoverImage)
		if err != nil {
			s.cascade.ReleaseMedia(ctx, entityUser, user.ID, uploaded...)
			return nil, err
		}
		user.CoverImageURL = &cover.URL
		uploaded = append(uploaded, cover.URL)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.cascade.ReleaseMedia(ctx, entityUser, user.ID, uploaded...)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("[User] Register OK")
	return user, nil
}

// Login authenticates by username or email. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, model.InvalidArgument("username or email is required")
	}
	if req.Password == "" {
		return nil, model.InvalidArgument("password is required")
	}

	var (
		user *model.User
		err  error
	)
	if username != "" {
		user, err = s.repo.GetByUsername(ctx, username)
	} else {
		user, err = s.repo.GetByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateAccount(ctx context.Context, userID string, req *model.UpdateAccountRequest) (*model.User, error) {
	if req.FullName == nil && req.Email == nil {
		return nil, model.ErrNothingToUpdate
	}

	var fullName, email *string
	if req.FullName != nil {
		v, err := requireLength("fullName", *req.FullName, model.FullNameMinLength, model.FullNameMaxLength)
		if err != nil {
			return nil, err
		}
		fullName = &v
	}
	if req.Email != nil {
		v, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		email = &v
	}

	return s.repo.UpdateAccount(ctx, userID, fullName, email)
}

// ChangePassword requires the current password.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.OldPassword)); err != nil {
		return model.ErrIncorrectPassword
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, string(hashedPassword))
}

// UpdateAvatar uploads the replacement, stores it, then releases the old object.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file *model.MediaFile) (*model.User, error) {
	if file == nil {
		return nil, model.ErrAvatarRequired
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	file.Kind = model.MediaAvatar
	upload, err := s.media.Upload(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAvatar(ctx, userID, upload.URL); err != nil {
		s.cascade.ReleaseMedia(ctx, entityUser, userID, upload.URL)
		return nil, err
	}

	old := user.AvatarURL
	user.AvatarURL = upload.URL
	s.cascade.ReleaseMedia(ctx, entityUser, userID, old)
	return user, nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, file *model.MediaFile) (*model.User, error) {
	if file == nil {
		return nil, model.InvalidArgument("cover image file is required")
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	file.Kind = model.MediaCover
	upload, err := s.media.Upload(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCoverImage(ctx, userID, &upload.URL); err != nil {
		s.cascade.ReleaseMedia(ctx, entityUser, userID, upload.URL)
		return nil, err
	}

	old := user.CoverImageURL
	user.CoverImageURL = &upload.URL
	if old != nil {
		s.cascade.ReleaseMedia(ctx, entityUser, userID, *old)
	}
	return user, nil
}

// GetChannelProfile returns username's channel as seen by viewerID.
func (s *UserService) GetChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, model.InvalidArgument("username is required")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	subscribers, err := s.subscriptions.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subscriptions.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var isSubscribed bool
	if viewerID != "" && viewerID != user.ID {
		if isSubscribed, err = s.subscriptions.Exists(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}

	return &model.ChannelProfile{
		ID:                        user.ID,
		Username:                  user.Username,
		FullName:                  user.FullName,
		Email:                     user.Email,
		AvatarURL:                 user.AvatarURL,
		CoverImageURL:             user.CoverImageURL,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

// GetWatchHistory returns the most recently watched videos first.
func (s *UserService) GetWatchHistory(ctx context.Context, userID string) ([]model.Video, error) {
	return s.repo.GetWatchHistory(ctx, userID, model.WatchHistoryLimit)
}
