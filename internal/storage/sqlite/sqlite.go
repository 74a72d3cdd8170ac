// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps the foreign_keys pragma in effect and
	// serializes writers.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateSplitBill persists a new bill and its participants.
func (s *SQLiteStore) CreateSplitBill(ctx context.Context, bill *models.SplitBill) error {
	if bill.Method == nil {
		return errors.New("split bill has no split method")
	}

	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Date == 0 {
		bill.Date = bill.CreatedAt
	}

	inputs := methodInputs(bill.Method)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO split_bills (id, title, total_amount, payer_id, split_type, category, notes, date, created_by_id, created_at, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Title, bill.TotalAmount, bill.PayerID, string(bill.Method.Type()),
		bill.Category, bill.Notes, bill.Date, bill.CreatedByID, bill.CreatedAt, bill.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split bill: %w", err)
	}

	for i := range bill.Participants {
		p := &bill.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}

		var input interface{}
		if v, ok := inputs[p.PersonID]; ok {
			input = v
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO split_participants (id, bill_id, position, person_id, amount, input, has_paid, payment_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, bill.ID, i, p.PersonID, p.Amount, input, p.HasPaid, p.PaymentDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSplitBill retrieves a bill by ID, including all participants.
func (s *SQLiteStore) GetSplitBill(ctx context.Context, billID string) (*models.SplitBill, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, total_amount, payer_id, split_type, category, notes, date, created_by_id, created_at, deleted_at
		 FROM split_bills WHERE id = ?`,
		billID,
	)
	bill, splitType, err := scanSplitBill(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split bill: %w", err)
	}

	if err := s.loadParticipants(ctx, bill, splitType); err != nil {
		return nil, err
	}
	return bill, nil
}

// ListSplitBills retrieves all live bills created by ownerID.
func (s *SQLiteStore) ListSplitBills(ctx context.Context, ownerID string) ([]*models.SplitBill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, total_amount, payer_id, split_type, category, notes, date, created_by_id, created_at, deleted_at
		 FROM split_bills WHERE created_by_id = ? AND deleted_at = 0 ORDER BY date DESC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list split bills: %w", err)
	}

	var bills []*models.SplitBill
	var types []models.SplitType
	for rows.Next() {
		bill, splitType, err := scanSplitBill(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan split bill: %w", err)
		}
		bills = append(bills, bill)
		types = append(types, splitType)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split bills: %w", err)
	}

	// Participants are loaded after the bill rows are closed; the store only
	// holds one connection.
	for i, bill := range bills {
		if err := s.loadParticipants(ctx, bill, types[i]); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

// UpdateSplitBillSettlement writes the paid flag and payment date of every
// participant. Amounts and the split method never change after creation.
func (s *SQLiteStore) UpdateSplitBillSettlement(ctx context.Context, bill *models.SplitBill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range bill.Participants {
		result, err := tx.ExecContext(ctx,
			"UPDATE split_participants SET has_paid = ?, payment_date = ? WHERE id = ? AND bill_id = ?",
			p.HasPaid, p.PaymentDate, p.ID, bill.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update participant: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("participant %s of split bill %s: %w", p.ID, bill.ID, storage.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSplitBill soft deletes a bill. Deleting twice is not an error.
func (s *SQLiteStore) DeleteSplitBill(ctx context.Context, billID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE split_bills SET deleted_at = ? WHERE id = ? AND deleted_at = 0",
		time.Now().Unix(), billID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete split bill: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM split_bills WHERE id = ?", billID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("split bill %s: %w", billID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check split bill existence: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSplitBill(row rowScanner) (*models.SplitBill, models.SplitType, error) {
	bill := &models.SplitBill{}
	var splitType string
	err := row.Scan(&bill.ID, &bill.Title, &bill.TotalAmount, &bill.PayerID, &splitType,
		&bill.Category, &bill.Notes, &bill.Date, &bill.CreatedByID, &bill.CreatedAt, &bill.DeletedAt)
	if err != nil {
		return nil, "", err
	}
	return bill, models.SplitType(splitType), nil
}

type participantInput struct {
	personID string
	input    decimal.NullDecimal
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, bill *models.SplitBill, splitType models.SplitType) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_id, amount, input, has_paid, payment_date
		 FROM split_participants WHERE bill_id = ? ORDER BY position`,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var inputs []participantInput
	for rows.Next() {
		var p models.SplitParticipant
		var input decimal.NullDecimal
		var paymentDate sql.NullInt64
		if err := rows.Scan(&p.ID, &p.PersonID, &p.Amount, &input, &p.HasPaid, &paymentDate); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if paymentDate.Valid {
			date := paymentDate.Int64
			p.PaymentDate = &date
		}
		bill.Participants = append(bill.Participants, p)
		inputs = append(inputs, participantInput{personID: p.PersonID, input: input})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	method, err := buildMethod(splitType, inputs)
	if err != nil {
		return fmt.Errorf("split bill %s: %w", bill.ID, err)
	}
	bill.Method = method
	return nil
}

// methodInputs returns the per-person input stored next to each participant.
// Equally splits have none.
func methodInputs(method models.SplitMethod) map[string]decimal.Decimal {
	inputs := make(map[string]decimal.Decimal)
	switch m := method.(type) {
	case models.ExactAmounts:
		for _, e := range m.Entries {
			inputs[e.PersonID] = e.Amount
		}
	case models.Percentages:
		for _, e := range m.Entries {
			inputs[e.PersonID] = e.Percentage
		}
	case models.Shares:
		for _, e := range m.Entries {
			inputs[e.PersonID] = decimal.NewFromInt(e.Shares)
		}
	case models.Adjustments:
		for _, e := range m.Entries {
			inputs[e.PersonID] = e.Adjustment
		}
	}
	return inputs
}

// buildMethod reassembles the split method from the stored participant inputs.
func buildMethod(splitType models.SplitType, inputs []participantInput) (models.SplitMethod, error) {
	value := func(in participantInput) decimal.Decimal {
		if in.input.Valid {
			return in.input.Decimal
		}
		return decimal.Zero
	}

	switch splitType {
	case models.SplitEqually:
		m := models.Equally{}
		for _, in := range inputs {
			m.People = append(m.People, in.personID)
		}
		return m, nil
	case models.SplitExactAmounts:
		m := models.ExactAmounts{}
		for _, in := range inputs {
			m.Entries = append(m.Entries, models.ExactAmount{PersonID: in.personID, Amount: value(in)})
		}
		return m, nil
	case models.SplitPercentages:
		m := models.Percentages{}
		for _, in := range inputs {
			m.Entries = append(m.Entries, models.PercentageEntry{PersonID: in.personID, Percentage: value(in)})
		}
		return m, nil
	case models.SplitShares:
		m := models.Shares{}
		for _, in := range inputs {
			m.Entries = append(m.Entries, models.ShareEntry{PersonID: in.personID, Shares: value(in).IntPart()})
		}
		return m, nil
	case models.SplitAdjustments:
		m := models.Adjustments{}
		for _, in := range inputs {
			m.Entries = append(m.Entries, models.AdjustmentEntry{PersonID: in.personID, Adjustment: value(in)})
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown split type %q", splitType)
	}
}
