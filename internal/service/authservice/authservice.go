package authservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dkozyr/gomarket/internal/cache"
	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/notify"
	"github.com/dkozyr/gomarket/pkg/auth"
	"github.com/dkozyr/gomarket/pkg/validate"
)

const (
	maxFailedLogins = 5
	lockDuration    = time.Hour
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	ErrUsernameTaken      = fmt.Errorf("username already taken: %w", domain.ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email already taken: %w", domain.ErrConflict)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", domain.ErrNotFound)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
)

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Service struct {
	userRepo    UserRepo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	cache       cache.Cache
	notifier    notify.Notifier
	tokenTTL    time.Duration
}

func New(repo UserRepo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface,
	c cache.Cache, notifier notify.Notifier, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:    repo,
		hashService: hashService,
		jwtService:  jwtService,
		cache:       c,
		notifier:    notifier,
		tokenTTL:    tokenTTL,
	}
}

type Candidate struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (s *Service) Register(ctx context.Context, candidate Candidate) (*domain.User, error) {
	if !validate.IsUsername(candidate.Username) {
		return nil, fmt.Errorf("malformed username: %w", domain.ErrValidation)
	}
	if !validate.IsEmail(candidate.Email) {
		return nil, fmt.Errorf("malformed email: %w", domain.ErrValidation)
	}
	if !validate.IsPassword(candidate.Password) {
		return nil, fmt.Errorf("password too short: %w", domain.ErrValidation)
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, candidate.Username)
	if err != nil {
		zap.L().Error("can't check username", zap.Error(err))
		return nil, err
	}
	if taken {
		zap.L().Info("username already exists", zap.String("username", candidate.Username))
		return nil, ErrUsernameTaken
	}
	taken, err = s.userRepo.ExistsByEmail(ctx, candidate.Email)
	if err != nil {
		zap.L().Error("can't check email", zap.Error(err))
		return nil, err
	}
	if taken {
		zap.L().Info("email already exists", zap.String("email", candidate.Email))
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.hashService.HashPassword(candidate.Password)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}

	user := &domain.User{
		Username:     candidate.Username,
		Email:        candidate.Email,
		PasswordHash: hashedPassword,
		FirstName:    candidate.FirstName,
		LastName:     candidate.LastName,
		Phone:        candidate.Phone,
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return nil, err
	}

	// Best effort: a failed welcome email never rolls back the registration.
	s.notifier.Notify(ctx, newUser, notify.KindWelcome, nil)

	zap.L().Info("user successfully registered", zap.String("username", newUser.Username))
	return newUser, nil
}

// Login verifies the secret for the user resolved by username or email. An
// unknown identifier, a wrong password and a locked account are all reported
// as the same ErrInvalidCredentials so callers can't probe which it was.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.userRepo.FindByLogin(ctx, identifier)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return "", err
	}
	if user == nil {
		zap.L().Info("login with unknown identifier")
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	if user.IsLocked(now) || user.IsDisabled() {
		zap.L().Warn("login attempt on locked or disabled account", zap.Int("user_id", user.ID))
		return "", ErrInvalidCredentials
	}

	if !s.hashService.ComparePassword(user.PasswordHash, password) {
		return "", s.recordFailedLogin(ctx, user, now)
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	if user.Status == domain.UserSuspended {
		user.Status = domain.UserActive
	}
	user.LastLogin = &now
	if _, err := s.userRepo.Update(ctx, user); err != nil {
		zap.L().Error("can't persist successful login", zap.Error(err))
		return "", err
	}
	s.cache.Evict(cache.KindUser, user.ID)

	zap.L().Info("user successfully authenticated", zap.Int("user_id", user.ID))
	return s.GenerateToken(user.ID, user.Role)
}

// recordFailedLogin persists the failed attempt and always reports
// ErrInvalidCredentials to the caller, unless the persist itself fails.
// Attempts against an already locked account never reach this point, so a
// standing lock is never extended.
func (s *Service) recordFailedLogin(ctx context.Context, user *domain.User, now time.Time) error {
	user.FailedLoginAttempts++

	var lockedUntil time.Time
	if user.FailedLoginAttempts >= maxFailedLogins {
		lockedUntil = now.Add(lockDuration)
		user.Status = domain.UserSuspended
		user.LockedUntil = &lockedUntil
	}

	if _, err := s.userRepo.Update(ctx, user); err != nil {
		zap.L().Error("can't persist failed login attempt", zap.Error(err))
		return err
	}
	s.cache.Evict(cache.KindUser, user.ID)

	zap.L().Warn("failed login attempt",
		zap.Int("user_id", user.ID),
		zap.Int("attempts", user.FailedLoginAttempts))

	if !lockedUntil.IsZero() {
		s.notifier.Notify(ctx, user, notify.KindAccountLocked, map[string]string{
			"locked_until": lockedUntil.Format(time.RFC3339),
		})
	}
	return ErrInvalidCredentials
}

func (s *Service) GenerateToken(userID int, role domain.UserRole) (string, error) {
	token, err := s.jwtService.GenerateJWT(userID, string(role), time.Now().Add(s.tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}

// RefreshToken reissues a token for a still-valid one. The old token stays
// usable until its natural expiry; there is no revocation list.
func (s *Service) RefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	return s.GenerateToken(claims.UserID, domain.UserRole(claims.Role))
}

// RequestPasswordReset replaces the credential with a hashed one-time secret
// and mails it out. An unknown email is a silent no-op so the endpoint can't
// be used to probe which addresses have accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user by email", zap.Error(err))
		return err
	}
	if user == nil {
		zap.L().Debug("password reset requested for unknown email")
		return nil
	}

	tempPassword := generateTemporaryPassword()
	hashed, err := s.hashService.HashPassword(tempPassword)
	if err != nil {
		zap.L().Error("can't hash temporary password", zap.Error(err))
		return err
	}

	user.PasswordHash = hashed
	user.PasswordResetRequired = true
	if _, err := s.userRepo.Update(ctx, user); err != nil {
		zap.L().Error("can't persist password reset", zap.Error(err))
		return err
	}
	s.cache.Evict(cache.KindUser, user.ID)

	s.notifier.Notify(ctx, user, notify.KindPasswordReset, map[string]string{
		"temporary_password": tempPassword,
	})

	zap.L().Info("password reset issued", zap.Int("user_id", user.ID))
	return nil
}

func generateTemporaryPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (s *Service) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !s.hashService.ComparePassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if !validate.IsPassword(newPassword) {
		return fmt.Errorf("password too short: %w", domain.ErrValidation)
	}

	hashed, err := s.hashService.HashPassword(newPassword)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return err
	}
	user.PasswordHash = hashed
	user.PasswordResetRequired = false
	if _, err := s.userRepo.Update(ctx, user); err != nil {
		zap.L().Error("can't persist password change", zap.Error(err))
		return err
	}
	s.cache.Evict(cache.KindUser, user.ID)

	zap.L().Info("password changed", zap.Int("user_id", user.ID))
	return nil
}

// VerifyEmail is idempotent: verifying an already verified address is a no-op.
func (s *Service) VerifyEmail(ctx context.Context, userID int) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.EmailVerified {
		return nil
	}

	user.EmailVerified = true
	if _, err := s.userRepo.Update(ctx, user); err != nil {
		zap.L().Error("can't persist email verification", zap.Error(err))
		return err
	}
	s.cache.Evict(cache.KindUser, user.ID)

	s.notifier.Notify(ctx, user, notify.KindEmailVerified, nil)

	zap.L().Info("email verified", zap.Int("user_id", user.ID))
	return nil
}
