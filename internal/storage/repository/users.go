package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

const userColumns = `id, email, name, avatar, role, created_at`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var name, avatar sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &name, &avatar, &u.Role, &u.CreatedAt); err != nil {
		return models.User{}, err
	}
	u.Name = nullString(name)
	u.Avatar = nullString(avatar)
	return u, nil
}

func (s *Storage) getUserBy(ctx context.Context, op, column string, value any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// GetUser возвращает пользователя по id.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.getUserBy(ctx, "storage.GetUser", "id", id)
}

// GetUserByEmail возвращает пользователя по e-mail.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserBy(ctx, "storage.GetUserByEmail", "email", email)
}

// CreateUser сохраняет нового пользователя.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (id, email, name, avatar, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns
	created, err := scanUser(s.DB.QueryRowContext(ctx, query, u.ID, u.Email, u.Name, u.Avatar, string(u.Role)))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// ListUsers возвращает всех пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUserRole меняет роль пользователя.
func (s *Storage) UpdateUserRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	const op = "storage.UpdateUserRole"

	query := `UPDATE users SET role = $1 WHERE id = $2 RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, string(role), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// DeleteUser удаляет пользователя вместе с его подписками.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.DeleteUser"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}
