package repository

import (
	"context"
	"errors"
	"fmt"

	"garagelog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// VehicleRepository provides access to vehicle rows.
type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	ListByUser(ctx context.Context, userID string) ([]model.Vehicle, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	// DeleteCascade removes the vehicle row, letting referential integrity
	// cascade to maintenances and images, and decrements the owner's
	// photo_count by the number of images removed, all in one transaction.
	// It returns the locators of every image that was attached so the
	// caller can clean up external storage after commit.
	DeleteCascade(ctx context.Context, vehicleID, ownerID string) ([]string, error)
}

type vehicleRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVehicleRepo creates a new VehicleRepository.
func NewVehicleRepo(pool *pgxpool.Pool, logger zerolog.Logger) VehicleRepository {
	return &vehicleRepo{pool: pool, logger: logger.With().Str("repository", "VehicleRepository").Logger()}
}

func (r *vehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `
        INSERT INTO vehicles (user_id, type, brand, model, year, license_plate, color)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `
	err := r.pool.QueryRow(ctx, q, v.UserID, v.Type, v.Brand, v.Model, v.Year, v.LicensePlate, v.Color).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create vehicle for user %s: %w", v.UserID, err)
	}
	return nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	const q = `
        SELECT id, user_id, type, brand, model, year, license_plate, color, created_at
        FROM vehicles WHERE id = $1
    `
	var v model.Vehicle
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&v.ID, &v.UserID, &v.Type, &v.Brand, &v.Model, &v.Year, &v.LicensePlate, &v.Color, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch vehicle %s: %w", id, err)
	}
	return &v, nil
}

func (r *vehicleRepo) ListByUser(ctx context.Context, userID string) ([]model.Vehicle, error) {
	const q = `
        SELECT id, user_id, type, brand, model, year, license_plate, color, created_at
        FROM vehicles WHERE user_id = $1 ORDER BY created_at
    `
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles for user %s: %w", userID, err)
	}
	defer rows.Close()

	var vehicles []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Type, &v.Brand, &v.Model, &v.Year, &v.LicensePlate, &v.Color, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	const q = `SELECT COUNT(*) FROM vehicles WHERE user_id = $1`
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count vehicles for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *vehicleRepo) DeleteCascade(ctx context.Context, vehicleID, ownerID string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction for vehicle delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const locatorsQ = `
        SELECT i.locator
        FROM maintenance_images i
        JOIN maintenances m ON m.id = i.maintenance_id
        WHERE m.vehicle_id = $1
    `
	rows, err := tx.Query(ctx, locatorsQ, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("collect image locators for vehicle %s: %w", vehicleID, err)
	}
	var locators []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan locator: %w", err)
		}
		locators = append(locators, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collect image locators for vehicle %s: %w", vehicleID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, vehicleID); err != nil {
		return nil, fmt.Errorf("delete vehicle %s: %w", vehicleID, err)
	}

	const counterQ = `UPDATE users SET photo_count = GREATEST(photo_count - $2, 0) WHERE id = $1`
	if _, err := tx.Exec(ctx, counterQ, ownerID, len(locators)); err != nil {
		return nil, fmt.Errorf("adjust photo count for user %s: %w", ownerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit vehicle delete %s: %w", vehicleID, err)
	}
	return locators, nil
}
