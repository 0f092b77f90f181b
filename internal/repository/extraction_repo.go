package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/os-extractor/internal/models"
	"github.com/garyjia/os-extractor/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExtractionRepository persists extraction results and their line items
type ExtractionRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewExtractionRepository creates a new extraction repository
func NewExtractionRepository(db *database.DB, logger *zap.Logger) *ExtractionRepository {
	return &ExtractionRepository{
		db:     db,
		logger: logger,
	}
}

const selectExtraction = `
	SELECT id, source_file, order_number, issue_date,
		client_code, client_name, client_email, client_tax_id,
		client_registration_id, client_address, client_phones,
		vehicle_fleet, vehicle_plate, vehicle_odometer, remarks,
		gross, discount, output_path, created_at
	FROM extractions
`

// Create stores the record and its items in one transaction.
// ID and CreatedAt are assigned when empty.
func (r *ExtractionRepository) Create(ctx context.Context, rec *models.ExtractionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	res := &rec.Result
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO extractions (
				id, source_file, order_number, issue_date,
				client_code, client_name, client_email, client_tax_id,
				client_registration_id, client_address, client_phones,
				vehicle_fleet, vehicle_plate, vehicle_odometer, remarks,
				gross, discount, net, output_path, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, res.SourceFile, res.OrderNumber, res.IssueDate,
			res.Client.Code, res.Client.Name, res.Client.Email, res.Client.TaxID,
			res.Client.RegistrationID, res.Client.Address, res.Client.Phones,
			res.Vehicle.Fleet, res.Vehicle.Plate, res.Vehicle.Odometer, res.Remarks,
			res.Totals.Gross.String(), res.Totals.Discount.String(), res.Totals.Net.String(),
			rec.OutputPath, rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert extraction: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO extraction_items (
				extraction_id, position, product_code, description,
				classification, reference, quantity, unit_price, total
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare item insert: %w", err)
		}
		defer stmt.Close()

		for i, item := range res.Items {
			if _, err := stmt.ExecContext(ctx,
				rec.ID, i, item.ProductCode, item.Description,
				item.Classification, item.Reference,
				item.Quantity.String(), item.UnitPrice.String(), item.Total.String(),
			); err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to create extraction",
			zap.String("id", rec.ID),
			zap.String("source_file", res.SourceFile),
			zap.Error(err))
		return err
	}

	r.logger.Debug("Created extraction",
		zap.String("id", rec.ID),
		zap.Int("items", len(res.Items)))
	return nil
}

// GetByID returns the extraction with the given id
func (r *ExtractionRepository) GetByID(ctx context.Context, id string) (*models.ExtractionRecord, error) {
	row := r.db.QueryRowContext(ctx, selectExtraction+" WHERE id = ?", id)
	return r.load(ctx, row)
}

// GetByOrderNumber returns the most recent extraction of an order
func (r *ExtractionRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.ExtractionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		selectExtraction+" WHERE order_number = ? ORDER BY created_at DESC LIMIT 1", orderNumber)
	return r.load(ctx, row)
}

// List returns extractions newest first. Items are loaded for each record.
func (r *ExtractionRepository) List(ctx context.Context, limit, offset int) ([]*models.ExtractionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx,
		selectExtraction+" ORDER BY created_at DESC, id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}

	var records []*models.ExtractionRecord
	for rows.Next() {
		rec, err := scanExtraction(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate extractions: %w", err)
	}
	rows.Close()

	for _, rec := range records {
		if err := r.loadItems(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *ExtractionRepository) load(ctx context.Context, row *sql.Row) (*models.ExtractionRecord, error) {
	rec, err := scanExtraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExtractionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ExtractionRepository) loadItems(ctx context.Context, rec *models.ExtractionRecord) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_code, description, classification, reference,
			quantity, unit_price, total
		FROM extraction_items
		WHERE extraction_id = ?
		ORDER BY position`, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(
			&item.ProductCode, &item.Description, &item.Classification, &item.Reference,
			&item.Quantity, &item.UnitPrice, &item.Total,
		); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	rec.Result.Items = items
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExtraction(s scanner) (*models.ExtractionRecord, error) {
	var (
		rec             models.ExtractionRecord
		gross, discount decimal.Decimal
		res             = &rec.Result
	)
	err := s.Scan(
		&rec.ID, &res.SourceFile, &res.OrderNumber, &res.IssueDate,
		&res.Client.Code, &res.Client.Name, &res.Client.Email, &res.Client.TaxID,
		&res.Client.RegistrationID, &res.Client.Address, &res.Client.Phones,
		&res.Vehicle.Fleet, &res.Vehicle.Plate, &res.Vehicle.Odometer, &res.Remarks,
		&gross, &discount, &rec.OutputPath, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan extraction: %w", err)
	}

	// net is stored for ad-hoc queries but always derived on read
	res.Totals = models.NewTotals(gross, discount)
	return &rec, nil
}
