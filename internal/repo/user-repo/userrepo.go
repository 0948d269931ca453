package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/pg"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, first_name, last_name, phone,
		role, status, email_verified, password_reset_required, failed_login_attempts,
		locked_until, last_login, created_at, updated_at, version`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Phone,
		&user.Role, &user.Status, &user.EmailVerified, &user.PasswordResetRequired,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	row := repo.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// FindByLogin resolves a user by username or email in one lookup, which is
// what the login endpoint accepts as identifier.
func (repo *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	row := repo.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by login", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := repo.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by email", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := repo.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		zap.L().Error("can't check username existence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (repo *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := repo.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		zap.L().Error("can't check email existence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`
	err := repo.db.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Phone, user.Role, user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Version)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrConflict
		}
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Update persists the whole row guarded by the optimistic version check. A
// concurrent writer that already bumped the version makes this call fail with
// domain.ErrVersionConflict instead of silently overwriting.
func (repo *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, phone = $5,
			role = $6, status = $7, email_verified = $8, password_reset_required = $9,
			failed_login_attempts = $10, locked_until = $11, last_login = $12,
			updated_at = NOW(), version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING updated_at, version
	`
	err := repo.db.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
		user.Role, user.Status, user.EmailVerified, user.PasswordResetRequired,
		user.FailedLoginAttempts, user.LockedUntil, user.LastLogin,
		user.ID, user.Version,
	).Scan(&user.UpdatedAt, &user.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrConflict
		}
		zap.L().Error("can't update user", zap.Error(err))
		return nil, err
	}
	return user, nil
}
