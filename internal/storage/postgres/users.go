package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/eventus-be/internal/models"
	"github.com/hongminglow/eventus-be/internal/storage"
)

const userColumns = `id, first_name, last_name, email, phone, password_hash, role, is_blocked, location, avatar,
	device_token, kyc_status, kyc_submitted_at, kyc_dob, kyc_citizenship_number, kyc_province, kyc_district,
	kyc_municipality, kyc_ward, kyc_street, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, first_name, last_name, email, phone, password_hash, role, is_blocked, location, avatar,
			device_token, kyc_status, kyc_submitted_at, kyc_dob, kyc_citizenship_number, kyc_province, kyc_district,
			kyc_municipality, kyc_ward, kyc_street)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, strings.ToLower(user.Email), user.Phone, user.PasswordHash,
		string(user.Role), user.IsBlocked, user.Location, user.Avatar, user.DeviceToken, string(user.KYCStatus),
		user.KYCSubmitted, user.DOB, user.CitizenshipNumber, user.Province, user.District, user.Municipality,
		user.Ward, user.Street,
	)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, translate(err)
	}
	return created, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail fetches a user by email address, ignoring case.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

// FindByPhone fetches the first user registered with the phone number.
func (s *Store) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	if phone == "" {
		return models.User{}, storage.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1 ORDER BY created_at LIMIT 1`, phone)
	return scanUser(row)
}

// ListUsers returns users matching the filter, newest first.
func (s *Store) ListUsers(ctx context.Context, filter storage.UserFilter) ([]models.User, error) {
	where, args := userWhere(filter)
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users`+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CountUsers counts users matching the filter.
func (s *Store) CountUsers(ctx context.Context, filter storage.UserFilter) (int64, error) {
	where, args := userWhere(filter)
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// UpdateUser overwrites the mutable profile columns.
func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		UPDATE users SET
			first_name = $2, last_name = $3, email = $4, phone = $5, role = $6, is_blocked = $7, location = $8,
			avatar = $9, kyc_status = $10, kyc_submitted_at = $11, kyc_dob = $12, kyc_citizenship_number = $13,
			kyc_province = $14, kyc_district = $15, kyc_municipality = $16, kyc_ward = $17, kyc_street = $18,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, strings.ToLower(user.Email), user.Phone, string(user.Role),
		user.IsBlocked, user.Location, user.Avatar, string(user.KYCStatus), user.KYCSubmitted, user.DOB,
		user.CitizenshipNumber, user.Province, user.District, user.Municipality, user.Ward, user.Street,
	)
	updated, err := scanUser(row)
	if err != nil {
		return models.User{}, translate(err)
	}
	return updated, nil
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetDeviceToken stores the push notification token for a user.
func (s *Store) SetDeviceToken(ctx context.Context, id, token string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET device_token = $2, updated_at = NOW() WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("set device token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser removes a user; tickets and bookmarks cascade, owned events are orphaned.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListDeviceTokens returns every registered push token.
func (s *Store) ListDeviceTokens(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT device_token FROM users WHERE device_token <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	return tokens, nil
}

func userWhere(filter storage.UserFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Blocked != nil {
		args = append(args, *filter.Blocked)
		clauses = append(clauses, fmt.Sprintf("is_blocked = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user      models.User
		role      string
		kycStatus string
	)
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Phone, &user.PasswordHash, &role,
		&user.IsBlocked, &user.Location, &user.Avatar, &user.DeviceToken, &kycStatus, &user.KYCSubmitted,
		&user.DOB, &user.CitizenshipNumber, &user.Province, &user.District, &user.Municipality, &user.Ward,
		&user.Street, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Role = models.Role(role)
	user.KYCStatus = models.KYCStatus(kycStatus)
	return user, nil
}
