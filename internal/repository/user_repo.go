package repository

import (
	"context"
	"errors"
	"fmt"

	"garagelog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository provides access to local user records.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByAuthUID(ctx context.Context, authUID string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new UserRepository.
func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `id, auth_uid, username, email, national_id, phone, tier, subscription_end_date, photo_count, is_admin, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.AuthUID,
		&u.Username,
		&u.Email,
		&u.NationalID,
		&u.Phone,
		&u.Tier,
		&u.SubscriptionEndDate,
		&u.PhotoCount,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
        INSERT INTO users (auth_uid, username, email, national_id, phone)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, tier, subscription_end_date, photo_count, is_admin, created_at
    `
	err := r.pool.QueryRow(ctx, q, u.AuthUID, u.Username, u.Email, u.NationalID, u.Phone).Scan(
		&u.ID,
		&u.Tier,
		&u.SubscriptionEndDate,
		&u.PhotoCount,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.AuthUID, err)
	}
	return nil
}

func (r *userRepo) GetByAuthUID(ctx context.Context, authUID string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE auth_uid = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, authUID))
	if err != nil {
		return nil, fmt.Errorf("fetch user by auth uid: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return u, nil
}

// UpdateProfile persists the mutable profile fields (username, national id,
// phone). Tier and subscription fields are owned by the coupon path.
func (r *userRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	const q = `UPDATE users SET username = $2, national_id = $3, phone = $4 WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, u.ID, u.Username, u.NationalID, u.Phone); err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	return nil
}
