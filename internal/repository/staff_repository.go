package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/membership-hub/membership-service/internal/domain"
)

// StaffRepository handles persistence for staff accounts. Mutations touch only
// the fields they name, so concurrent writers to one account never overwrite
// each other's fields.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffAccount) error
	// SetOTP stores a pending reset code, replacing any earlier one.
	SetOTP(ctx context.Context, id, hash string, expiresAt time.Time) error
	// ConsumeOTP clears the pending reset code and returns what was stored.
	// It fails with ErrNoPendingOTP when nothing was pending.
	ConsumeOTP(ctx context.Context, id string) (hash string, expiresAt time.Time, err error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	SetSuspended(ctx context.Context, id string, suspended bool) (*domain.StaffAccount, error)
	GetByID(ctx context.Context, id string) (*domain.StaffAccount, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffAccount, error)
	// Delete removes the account; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Role *domain.StaffRole
}

const staffColumns = `id, name, email, phone, position, role, password_hash, is_suspended,
        otp_hash, otp_expires_at, created_at, updated_at`

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the Postgres-backed repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffAccount) error {
	const query = `
        INSERT INTO staff_accounts (name, email, phone, position, role, password_hash, is_suspended, otp_hash, otp_expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.Phone,
		staff.Position,
		staff.Role,
		staff.PasswordHash,
		staff.IsSuspended,
		staff.OTPHash,
		staff.OTPExpiresAt,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	return mapPgError(err)
}

func (r *staffRepository) SetOTP(ctx context.Context, id, hash string, expiresAt time.Time) error {
	const query = `
        UPDATE staff_accounts
        SET otp_hash=$1, otp_expires_at=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING id`

	var updated string
	return mapPgError(r.pool.QueryRow(ctx, query, hash, expiresAt, id).Scan(&updated))
}

func (r *staffRepository) ConsumeOTP(ctx context.Context, id string) (string, time.Time, error) {
	// The row lock in the subquery makes read-and-clear a single step.
	const query = `
        UPDATE staff_accounts AS s
        SET otp_hash=NULL, otp_expires_at=NULL, updated_at=NOW()
        FROM (SELECT id, otp_hash, otp_expires_at FROM staff_accounts WHERE id=$1 FOR UPDATE) AS prev
        WHERE s.id = prev.id
        RETURNING prev.otp_hash, prev.otp_expires_at`

	var (
		hash      *string
		expiresAt *time.Time
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(&hash, &expiresAt); err != nil {
		return "", time.Time{}, mapPgError(err)
	}
	if hash == nil || expiresAt == nil {
		return "", time.Time{}, ErrNoPendingOTP
	}
	return *hash, *expiresAt, nil
}

func (r *staffRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	const query = `
        UPDATE staff_accounts
        SET password_hash=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id`

	var updated string
	return mapPgError(r.pool.QueryRow(ctx, query, hash, id).Scan(&updated))
}

func (r *staffRepository) SetSuspended(ctx context.Context, id string, suspended bool) (*domain.StaffAccount, error) {
	query := `
        UPDATE staff_accounts
        SET is_suspended=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + staffColumns

	staff, err := scanStaff(r.pool.QueryRow(ctx, query, suspended, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return staff, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_accounts WHERE id=$1`
	staff, err := scanStaff(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return staff, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_accounts WHERE email=$1`
	staff, err := scanStaff(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapPgError(err)
	}
	return staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffAccount, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_accounts`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffAccount
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM staff_accounts WHERE id=$1`, id)
	if err = mapPgError(err); errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func scanStaff(row pgx.Row) (*domain.StaffAccount, error) {
	var staff domain.StaffAccount
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.Phone,
		&staff.Position,
		&staff.Role,
		&staff.PasswordHash,
		&staff.IsSuspended,
		&staff.OTPHash,
		&staff.OTPExpiresAt,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

// mapPgError translates driver errors into repository sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateEmail
		case "22P02":
			// malformed uuid
			return ErrNotFound
		}
	}
	return err
}
