package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/membership-hub/membership-service/internal/domain"
)

// MemberRepository defines persistence access for member records.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	Update(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	List(ctx context.Context, filter MemberFilter) ([]domain.Member, error)
	// Delete removes the record; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// MemberFilter defines query params for member listing.
type MemberFilter struct {
	WithDateOfBirth bool
}

const memberColumns = `id, name, email, phone, address, gender, date_of_birth, membership_status, created_at, updated_at`

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (name, email, phone, address, gender, date_of_birth, membership_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return mapPgError(r.pool.QueryRow(ctx, query,
		member.Name,
		member.Email,
		member.Phone,
		member.Address,
		member.Gender,
		member.DateOfBirth,
		member.MembershipStatus,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt))
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	const query = `
        UPDATE members SET name=$1, email=$2, phone=$3, address=$4, gender=$5, date_of_birth=$6,
            membership_status=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`

	return mapPgError(r.pool.QueryRow(ctx, query,
		member.Name,
		member.Email,
		member.Phone,
		member.Address,
		member.Gender,
		member.DateOfBirth,
		member.MembershipStatus,
		member.ID,
	).Scan(&member.UpdatedAt))
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	member, err := scanMember(r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return member, nil
}

func (r *memberRepository) List(ctx context.Context, filter MemberFilter) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members`
	if filter.WithDateOfBirth {
		query += ` WHERE date_of_birth IS NOT NULL`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *member)
	}
	return result, rows.Err()
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id=$1`, id)
	if err = mapPgError(err); errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var member domain.Member
	if err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Email,
		&member.Phone,
		&member.Address,
		&member.Gender,
		&member.DateOfBirth,
		&member.MembershipStatus,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}
