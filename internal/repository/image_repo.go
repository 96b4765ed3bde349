package repository

import (
	"context"
	"errors"
	"fmt"

	"garagelog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrImageLimitReached is returned when a maintenance already carries the
// maximum number of images.
var ErrImageLimitReached = errors.New("image_limit_reached")

// ImageRepository provides access to maintenance image rows.
type ImageRepository interface {
	// CheckAndInsert atomically verifies the per-maintenance image cap,
	// inserts the image row and increments the owner's photo_count. The
	// serializable isolation level keeps two concurrent uploads from
	// overshooting the cap.
	CheckAndInsert(ctx context.Context, img *model.MaintenanceImage, ownerID string) error
	// GetWithOwner returns the image and the id of the user owning its
	// ownership chain, or (nil, "") when absent.
	GetWithOwner(ctx context.Context, id string) (*model.MaintenanceImage, string, error)
	// Delete removes the image row and decrements the owner's photo_count,
	// floored at zero, in one transaction.
	Delete(ctx context.Context, id, ownerID string) error
}

type imageRepo struct {
	pool *pgxpool.Pool
}

// NewImageRepo creates a new ImageRepository.
func NewImageRepo(pool *pgxpool.Pool) ImageRepository {
	return &imageRepo{pool: pool}
}

func (r *imageRepo) CheckAndInsert(ctx context.Context, img *model.MaintenanceImage, ownerID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("starting transaction for image insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var count int
	const countQ = `SELECT COUNT(*) FROM maintenance_images WHERE maintenance_id = $1`
	if err := tx.QueryRow(ctx, countQ, img.MaintenanceID).Scan(&count); err != nil {
		return fmt.Errorf("counting images for maintenance %s: %w", img.MaintenanceID, err)
	}
	if count >= model.MaxImagesPerMaintenance {
		return ErrImageLimitReached
	}

	const insertQ = `
        INSERT INTO maintenance_images (maintenance_id, locator)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	if err := tx.QueryRow(ctx, insertQ, img.MaintenanceID, img.Locator).Scan(&img.ID, &img.CreatedAt); err != nil {
		return fmt.Errorf("insert image for maintenance %s: %w", img.MaintenanceID, err)
	}

	const counterQ = `UPDATE users SET photo_count = photo_count + 1 WHERE id = $1`
	if _, err := tx.Exec(ctx, counterQ, ownerID); err != nil {
		return fmt.Errorf("adjust photo count for user %s: %w", ownerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit image insert for maintenance %s: %w", img.MaintenanceID, err)
	}
	return nil
}

func (r *imageRepo) GetWithOwner(ctx context.Context, id string) (*model.MaintenanceImage, string, error) {
	const q = `
        SELECT i.id, i.maintenance_id, i.locator, i.created_at, v.user_id
        FROM maintenance_images i
        JOIN maintenances m ON m.id = i.maintenance_id
        JOIN vehicles v ON v.id = m.vehicle_id
        WHERE i.id = $1
    `
	var img model.MaintenanceImage
	var ownerID string
	err := r.pool.QueryRow(ctx, q, id).Scan(&img.ID, &img.MaintenanceID, &img.Locator, &img.CreatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("fetch image %s: %w", id, err)
	}
	return &img, ownerID, nil
}

func (r *imageRepo) Delete(ctx context.Context, id, ownerID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction for image delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM maintenance_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	// A repeated delete of the same image must not decrement the counter.
	if tag.RowsAffected() > 0 {
		const counterQ = `UPDATE users SET photo_count = GREATEST(photo_count - 1, 0) WHERE id = $1`
		if _, err := tx.Exec(ctx, counterQ, ownerID); err != nil {
			return fmt.Errorf("adjust photo count for user %s: %w", ownerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit image delete %s: %w", id, err)
	}
	return nil
}
