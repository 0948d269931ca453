package accountservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dkozyr/gomarket/internal/cache"
	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/pkg/validate"
)

const suspensionDuration = time.Hour

var (
	ErrUserNotFound = fmt.Errorf("user not found: %w", domain.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("email already taken: %w", domain.ErrConflict)
)

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Service struct {
	userRepo UserRepo
	cache    cache.Cache
}

func New(repo UserRepo, c cache.Cache) *Service {
	return &Service{
		userRepo: repo,
		cache:    c,
	}
}

// GetByID reads through the cache: a hit skips the database entirely, a miss
// populates the cache for the next caller.
func (s *Service) GetByID(ctx context.Context, userID int) (*domain.User, error) {
	if data, ok := s.cache.Get(cache.KindUser, userID); ok {
		var user domain.User
		if err := json.Unmarshal(data, &user); err == nil {
			return &user, nil
		}
		s.cache.Evict(cache.KindUser, userID)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if data, err := json.Marshal(user); err == nil {
		s.cache.Put(cache.KindUser, user.ID, data, cache.KindUser.TTL())
	}
	return user, nil
}

type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// UpdateProfile applies the non-nil fields. Changing the email resets
// EmailVerified until the new address is confirmed again.
func (s *Service) UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if update.Email != nil && *update.Email != user.Email {
		if !validate.IsEmail(*update.Email) {
			return nil, fmt.Errorf("malformed email: %w", domain.ErrValidation)
		}
		taken, err := s.userRepo.ExistsByEmail(ctx, *update.Email)
		if err != nil {
			zap.L().Error("can't check email", zap.Error(err))
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *update.Email
		user.EmailVerified = false
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		zap.L().Error("can't update profile", zap.Error(err))
		return nil, err
	}
	s.cache.Evict(cache.KindUser, userID)

	zap.L().Info("profile updated", zap.Int("user_id", userID))
	return updated, nil
}

func (s *Service) UpdateRole(ctx context.Context, userID int, role domain.UserRole) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Role = role
	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		zap.L().Error("can't update role", zap.Error(err))
		return nil, err
	}
	s.cache.Evict(cache.KindUser, userID)

	zap.L().Info("role updated", zap.Int("user_id", userID), zap.String("role", string(role)))
	return updated, nil
}

// UpdateStatus moves the account between lifecycle states. Suspending starts
// a one hour lock; activating clears the lock and the failed login counter.
func (s *Service) UpdateStatus(ctx context.Context, userID int, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Status = status
	switch status {
	case domain.UserSuspended:
		lockedUntil := time.Now().Add(suspensionDuration)
		user.LockedUntil = &lockedUntil
	case domain.UserActive:
		user.LockedUntil = nil
		user.FailedLoginAttempts = 0
	}

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		zap.L().Error("can't update status", zap.Error(err))
		return nil, err
	}
	s.cache.Evict(cache.KindUser, userID)

	zap.L().Info("status updated", zap.Int("user_id", userID), zap.String("status", string(status)))
	return updated, nil
}

// Delete marks the account deleted. The row stays so orders keep a valid
// owner, but the account can no longer authenticate.
func (s *Service) Delete(ctx context.Context, userID int) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Status == domain.UserDeleted {
		return nil
	}

	user.Status = domain.UserDeleted
	if _, err := s.userRepo.Update(ctx, user); err != nil {
		zap.L().Error("can't delete user", zap.Error(err))
		return err
	}
	s.cache.Evict(cache.KindUser, userID)

	zap.L().Info("user deleted", zap.Int("user_id", userID))
	return nil
}
