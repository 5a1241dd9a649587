package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time checks that UserService implements its ports.
var (
	_ ports.UserService      = (*UserService)(nil)
	_ ports.IdentityResolver = (*UserService)(nil)
)

// UserService implements ports.UserService and ports.IdentityResolver.
type UserService struct {
	store  ports.Store
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(store ports.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: orDiscard(logger)}
}

// Register creates a user account with the USER role.
func (s *UserService) Register(ctx context.Context, draft ports.UserDraft) (*user.User, error) {
	s.logger.InfoContext(ctx, "registering user")

	draftUser := user.User{
		Name:      draft.Name,
		Username:  draft.Username,
		Email:     strings.TrimSpace(draft.Email),
		AvatarURL: draft.AvatarURL,
		Role:      user.RoleUser,
	}
	if err := draftUser.Validate(); err != nil {
		return nil, err
	}

	var u *user.User
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		if err := ensureEmailFree(ctx, repo, draftUser.Email, 0); err != nil {
			return err
		}
		fresh := draftUser
		if err := repo.SaveUser(ctx, &fresh); err != nil {
			return err
		}
		u = &fresh
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to register user",
			slog.String("operation", "Register"),
			slog.Any("error", err),
		)
		return nil, err
	}
	return u, nil
}

// GetUser returns a user by ID to an authenticated actor.
func (s *UserService) GetUser(ctx context.Context, id int64, actor *user.User) (*user.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	u, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch user",
			slog.String("operation", "GetUser"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of upd to the actor's account.
func (s *UserService) UpdateProfile(ctx context.Context, actor *user.User, upd ports.ProfileUpdate) (*user.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "updating profile", slog.Int64("id", actor.ID))

	var out *user.User
	err := s.store.Atomically(ctx, func(repo ports.Repository) error {
		u, err := repo.FindUserByID(ctx, actor.ID)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Username != nil {
			u.Username = *upd.Username
		}
		if upd.AvatarURL != nil {
			u.AvatarURL = *upd.AvatarURL
		}
		if upd.Email != nil {
			email := strings.TrimSpace(*upd.Email)
			if !strings.EqualFold(email, u.Email) {
				if err := ensureEmailFree(ctx, repo, email, u.ID); err != nil {
					return err
				}
			}
			u.Email = email
		}
		if err := u.Validate(); err != nil {
			return err
		}

		out = u
		return repo.SaveUser(ctx, u)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update profile",
			slog.String("operation", "UpdateProfile"),
			slog.Int64("id", actor.ID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return out, nil
}

// ResolveActor returns the user registered under email. An unknown email is
// reported as domain.ErrUnauthenticated.
func (s *UserService) ResolveActor(ctx context.Context, email string) (*user.User, error) {
	u, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving actor: %w", err)
	}
	return u, nil
}

func ensureEmailFree(ctx context.Context, repo ports.Repository, email string, selfID int64) error {
	existing, err := repo.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return fmt.Errorf("email %q: %w: already registered", email, domain.ErrConflict)
	default:
		return nil
	}
}
