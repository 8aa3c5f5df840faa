package users

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/angelmondragon/showroom-backend/internal/media"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/security"
)

const (
	minNameLen     = 2
	minPasswordLen = 6
)

type avatarManager interface {
	UploadAll(ctx context.Context, folder string, sources []string) ([]string, error)
	DeleteAll(ctx context.Context, reason, productID string, urls []string) error
}

// ServiceParams wires the account service.
type ServiceParams struct {
	Repo         *Repository
	Images       avatarManager
	Password     config.PasswordConfig
	AvatarFolder string
	Logger       *logger.Logger
}

// Service manages the signed-in user's own account.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, input UpdateAccountInput) (*UserDTO, error)
}

type service struct {
	repo     *Repository
	images   avatarManager
	password config.PasswordConfig
	folder   string
	logg     *logger.Logger
	validate *validator.Validate
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("users repo is required")
	}
	if params.Images == nil {
		return nil, errors.New("image manager is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	folder := params.AvatarFolder
	if folder == "" {
		folder = "avatars"
	}
	return &service{
		repo:     params.Repo,
		images:   params.Images,
		password: params.Password,
		folder:   folder,
		logg:     params.Logger,
		validate: validator.New(),
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// UpdateAccount applies the provided fields. A new inline avatar is uploaded
// before the write; the replaced avatar is removed only after the write succeeds.
func (s *service) UpdateAccount(ctx context.Context, userID uuid.UUID, input UpdateAccountInput) (*UserDTO, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			taken, err := s.repo.EmailTakenByOther(ctx, email, user.ID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
			}
			if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
			}
			user.Email = email
		}
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}

	var previous, uploaded string
	if input.ProfilePicture.Valid {
		if user.ProfilePicture != nil {
			previous = *user.ProfilePicture
		}
		next, err := s.resolveAvatar(ctx, input.ProfilePicture.Value)
		if err != nil {
			return nil, err
		}
		if next != nil && input.ProfilePicture.Value != nil && *next != *input.ProfilePicture.Value {
			uploaded = *next
		}
		user.ProfilePicture = next
	}

	if _, err := s.repo.Save(ctx, user); err != nil {
		if uploaded != "" {
			_ = s.images.DeleteAll(context.WithoutCancel(ctx), media.ReasonUploadAbort, user.ID.String(), []string{uploaded})
		}
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	if previous != "" && (user.ProfilePicture == nil || *user.ProfilePicture != previous) {
		if err := s.images.DeleteAll(ctx, media.ReasonAvatarReplace, user.ID.String(), []string{previous}); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "url", previous), "account.avatar_delete_failed")
		}
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "account.updated")
	return FromModel(user), nil
}

// resolveAvatar turns the requested picture into the stored URL.
func (s *service) resolveAvatar(ctx context.Context, requested *string) (*string, error) {
	if requested == nil {
		return nil, nil
	}
	src := strings.TrimSpace(*requested)
	switch {
	case src == "":
		return nil, nil
	case media.IsPersistedRef(src):
		return &src, nil
	case media.IsInlineImage(src):
		urls, err := s.images.UploadAll(ctx, s.folder, []string{src})
		if err != nil {
			return nil, err
		}
		return &urls[0], nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"profilePicture": "must be an image URL or data:image URI"})
	}
}

func (s *service) validateInput(input UpdateAccountInput) error {
	details := map[string]string{}
	if input.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Name)) < minNameLen {
		details["name"] = "must be at least 2 characters"
	}
	if input.Email != nil {
		if err := s.validate.Var(strings.TrimSpace(*input.Email), "required,email"); err != nil {
			details["email"] = "must be a valid email address"
		}
	}
	if input.Password != nil && utf8.RuneCountInString(*input.Password) < minPasswordLen {
		details["password"] = "must be at least 6 characters"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}
