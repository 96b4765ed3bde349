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

// MaintenanceRepository provides access to maintenance rows and their images.
type MaintenanceRepository interface {
	// Create inserts the maintenance and any initial image locators in one
	// transaction, incrementing the owner's photo_count accordingly.
	Create(ctx context.Context, m *model.Maintenance, ownerID string, imageLocators []string) error
	// GetWithOwner returns the maintenance (with images) and the id of the
	// user owning its vehicle, or (nil, "") when absent.
	GetWithOwner(ctx context.Context, id string) (*model.Maintenance, string, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]model.Maintenance, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, m *model.Maintenance) error
	// UpdateWithImages applies the field update, swaps the attached image
	// rows for the given locators and adjusts the owner's photo_count, all
	// in one transaction. It returns the locators that were removed so
	// storage can be cleaned up after commit.
	UpdateWithImages(ctx context.Context, m *model.Maintenance, ownerID string, locators []string) ([]string, error)
	// DeleteCascade removes the maintenance row (images cascade) and
	// decrements the owner's photo_count, returning the removed locators.
	DeleteCascade(ctx context.Context, maintenanceID, ownerID string) ([]string, error)
}

type maintenanceRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMaintenanceRepo creates a new MaintenanceRepository.
func NewMaintenanceRepo(pool *pgxpool.Pool, logger zerolog.Logger) MaintenanceRepository {
	return &maintenanceRepo{pool: pool, logger: logger.With().Str("repository", "MaintenanceRepository").Logger()}
}

const maintenanceColumns = `id, vehicle_id, service_type, workshop, mechanic, labor_warranty_date, labor_cost, parts, parts_store, parts_warranty_date, parts_cost, service_date, created_at`

func scanMaintenance(row pgx.Row, m *model.Maintenance) error {
	return row.Scan(
		&m.ID,
		&m.VehicleID,
		&m.ServiceType,
		&m.Workshop,
		&m.Mechanic,
		&m.LaborWarrantyDate,
		&m.LaborCost,
		&m.Parts,
		&m.PartsStore,
		&m.PartsWarrantyDate,
		&m.PartsCost,
		&m.ServiceDate,
		&m.CreatedAt,
	)
}

func (r *maintenanceRepo) Create(ctx context.Context, m *model.Maintenance, ownerID string, imageLocators []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction for maintenance create: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const q = `
        INSERT INTO maintenances (vehicle_id, service_type, workshop, mechanic, labor_warranty_date, labor_cost, parts, parts_store, parts_warranty_date, parts_cost, service_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at
    `
	err = tx.QueryRow(ctx, q,
		m.VehicleID, m.ServiceType, m.Workshop, m.Mechanic,
		m.LaborWarrantyDate, m.LaborCost, m.Parts, m.PartsStore,
		m.PartsWarrantyDate, m.PartsCost, m.ServiceDate,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create maintenance for vehicle %s: %w", m.VehicleID, err)
	}

	for _, locator := range imageLocators {
		var img model.MaintenanceImage
		const imgQ = `INSERT INTO maintenance_images (maintenance_id, locator) VALUES ($1, $2) RETURNING id, maintenance_id, locator, created_at`
		if err := tx.QueryRow(ctx, imgQ, m.ID, locator).Scan(&img.ID, &img.MaintenanceID, &img.Locator, &img.CreatedAt); err != nil {
			return fmt.Errorf("attach image to maintenance %s: %w", m.ID, err)
		}
		m.Images = append(m.Images, img)
	}
	if n := len(imageLocators); n > 0 {
		const counterQ = `UPDATE users SET photo_count = photo_count + $2 WHERE id = $1`
		if _, err := tx.Exec(ctx, counterQ, ownerID, n); err != nil {
			return fmt.Errorf("adjust photo count for user %s: %w", ownerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit maintenance create: %w", err)
	}
	return nil
}

func (r *maintenanceRepo) GetWithOwner(ctx context.Context, id string) (*model.Maintenance, string, error) {
	const q = `
        SELECT m.id, m.vehicle_id, m.service_type, m.workshop, m.mechanic, m.labor_warranty_date, m.labor_cost, m.parts, m.parts_store, m.parts_warranty_date, m.parts_cost, m.service_date, m.created_at, v.user_id
        FROM maintenances m
        JOIN vehicles v ON v.id = m.vehicle_id
        WHERE m.id = $1
    `
	var m model.Maintenance
	var ownerID string
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.VehicleID, &m.ServiceType, &m.Workshop, &m.Mechanic,
		&m.LaborWarrantyDate, &m.LaborCost, &m.Parts, &m.PartsStore,
		&m.PartsWarrantyDate, &m.PartsCost, &m.ServiceDate, &m.CreatedAt,
		&ownerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("fetch maintenance %s: %w", id, err)
	}

	images, err := r.imagesFor(ctx, m.ID)
	if err != nil {
		return nil, "", err
	}
	m.Images = images
	return &m, ownerID, nil
}

func (r *maintenanceRepo) imagesFor(ctx context.Context, maintenanceID string) ([]model.MaintenanceImage, error) {
	const q = `SELECT id, maintenance_id, locator, created_at FROM maintenance_images WHERE maintenance_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("list images for maintenance %s: %w", maintenanceID, err)
	}
	defer rows.Close()

	var images []model.MaintenanceImage
	for rows.Next() {
		var img model.MaintenanceImage
		if err := rows.Scan(&img.ID, &img.MaintenanceID, &img.Locator, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *maintenanceRepo) ListByVehicle(ctx context.Context, vehicleID string) ([]model.Maintenance, error) {
	q := `SELECT ` + maintenanceColumns + ` FROM maintenances WHERE vehicle_id = $1 ORDER BY service_date DESC`
	rows, err := r.pool.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list maintenances for vehicle %s: %w", vehicleID, err)
	}
	defer rows.Close()

	var maintenances []model.Maintenance
	for rows.Next() {
		var m model.Maintenance
		if err := scanMaintenance(rows, &m); err != nil {
			return nil, fmt.Errorf("scan maintenance row: %w", err)
		}
		maintenances = append(maintenances, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range maintenances {
		images, err := r.imagesFor(ctx, maintenances[i].ID)
		if err != nil {
			return nil, err
		}
		maintenances[i].Images = images
	}
	return maintenances, nil
}

func (r *maintenanceRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	const q = `
        SELECT COUNT(*)
        FROM maintenances m
        JOIN vehicles v ON v.id = m.vehicle_id
        WHERE v.user_id = $1
    `
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count maintenances for user %s: %w", userID, err)
	}
	return count, nil
}

const maintenanceUpdateQuery = `
        UPDATE maintenances
        SET service_type = $2,
            workshop = $3,
            mechanic = $4,
            labor_warranty_date = $5,
            labor_cost = $6,
            parts = $7,
            parts_store = $8,
            parts_warranty_date = $9,
            parts_cost = $10,
            service_date = $11
        WHERE id = $1
    `

func maintenanceUpdateArgs(m *model.Maintenance) []any {
	return []any{
		m.ID, m.ServiceType, m.Workshop, m.Mechanic,
		m.LaborWarrantyDate, m.LaborCost, m.Parts, m.PartsStore,
		m.PartsWarrantyDate, m.PartsCost, m.ServiceDate,
	}
}

func (r *maintenanceRepo) Update(ctx context.Context, m *model.Maintenance) error {
	if _, err := r.pool.Exec(ctx, maintenanceUpdateQuery, maintenanceUpdateArgs(m)...); err != nil {
		return fmt.Errorf("update maintenance %s: %w", m.ID, err)
	}
	return nil
}

func (r *maintenanceRepo) UpdateWithImages(ctx context.Context, m *model.Maintenance, ownerID string, locators []string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction for maintenance update: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, maintenanceUpdateQuery, maintenanceUpdateArgs(m)...); err != nil {
		return nil, fmt.Errorf("update maintenance %s: %w", m.ID, err)
	}

	rows, err := tx.Query(ctx, `DELETE FROM maintenance_images WHERE maintenance_id = $1 RETURNING locator`, m.ID)
	if err != nil {
		return nil, fmt.Errorf("remove images for maintenance %s: %w", m.ID, err)
	}
	var removed []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan removed locator: %w", err)
		}
		removed = append(removed, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("remove images for maintenance %s: %w", m.ID, err)
	}

	for _, locator := range locators {
		if _, err := tx.Exec(ctx, `INSERT INTO maintenance_images (maintenance_id, locator) VALUES ($1, $2)`, m.ID, locator); err != nil {
			return nil, fmt.Errorf("attach image to maintenance %s: %w", m.ID, err)
		}
	}

	delta := len(locators) - len(removed)
	const counterQ = `UPDATE users SET photo_count = GREATEST(photo_count + $2, 0) WHERE id = $1`
	if _, err := tx.Exec(ctx, counterQ, ownerID, delta); err != nil {
		return nil, fmt.Errorf("adjust photo count for user %s: %w", ownerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit maintenance update %s: %w", m.ID, err)
	}
	return removed, nil
}

func (r *maintenanceRepo) DeleteCascade(ctx context.Context, maintenanceID, ownerID string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction for maintenance delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `SELECT locator FROM maintenance_images WHERE maintenance_id = $1`, maintenanceID)
	if err != nil {
		return nil, fmt.Errorf("collect image locators for maintenance %s: %w", maintenanceID, err)
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
		return nil, fmt.Errorf("collect image locators for maintenance %s: %w", maintenanceID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM maintenances WHERE id = $1`, maintenanceID); err != nil {
		return nil, fmt.Errorf("delete maintenance %s: %w", maintenanceID, err)
	}

	const counterQ = `UPDATE users SET photo_count = GREATEST(photo_count - $2, 0) WHERE id = $1`
	if _, err := tx.Exec(ctx, counterQ, ownerID, len(locators)); err != nil {
		return nil, fmt.Errorf("adjust photo count for user %s: %w", ownerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit maintenance delete %s: %w", maintenanceID, err)
	}
	return locators, nil
}
