package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, email, first_name, last_name, username, password_hash,
	is_active, is_staff, is_superuser, last_login_at, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u           domain.User
		isActive    int
		isStaff     int
		isSuperuser int
		lastLoginAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Username,
		&u.PasswordHash,
		&isActive,
		&isStaff,
		&isSuperuser,
		&lastLoginAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.IsActive = isActive == 1
	u.IsStaff = isStaff == 1
	u.IsSuperuser = isSuperuser == 1

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if u.LastLoginAt, err = parseNullableTime(lastLoginAt); err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a user and sets its ID.
// Returns store.ErrEmailExists if the email is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	result, err := s.q.ExecContext(ctx, `
		INSERT INTO users (
			email, first_name, last_name, username, password_hash,
			is_active, is_staff, is_superuser, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Username,
		user.PasswordHash,
		boolToInt(user.IsActive),
		boolToInt(user.IsStaff),
		boolToInt(user.IsSuperuser),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrEmailExists
		}
		return err
	}

	user.ID, err = result.LastInsertId()
	return err
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, noRows(err, store.ErrUserNotFound)
	}
	return u, nil
}

// GetUserByEmail returns a user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, domain.NormalizeEmail(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, noRows(err, store.ErrUserNotFound)
	}
	return u, nil
}

// ListUsers returns every user by id.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// TouchUserLogin records a successful login.
func (s *Store) TouchUserLogin(ctx context.Context, id int64, at time.Time) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		formatTime(at), formatTime(at), id)
	if err != nil {
		return err
	}
	return affected(result, store.ErrUserNotFound)
}

// FirstSuperuser returns the superuser with the lowest id.
func (s *Store) FirstSuperuser(ctx context.Context) (*domain.User, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE is_superuser = 1 ORDER BY id LIMIT 1`)
	u, err := scanUser(row)
	if err != nil {
		return nil, noRows(err, store.ErrUserNotFound)
	}
	return u, nil
}
