package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateTransaction persists a new transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	// Generate ID if not set
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}
	if tx.Date == 0 {
		tx.Date = tx.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, title, amount, counterparty_id, category, notes, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, tx.Title, tx.Amount, nullString(tx.CounterpartyID),
		tx.Category, tx.Notes, tx.Date, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListTransactions retrieves all transactions recorded by ownerID.
func (s *SQLiteStore) ListTransactions(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, amount, counterparty_id, category, notes, date, created_at
		 FROM transactions WHERE owner_id = ? ORDER BY date DESC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		var counterparty sql.NullString

		if err := rows.Scan(&tx.ID, &tx.OwnerID, &tx.Title, &tx.Amount, &counterparty,
			&tx.Category, &tx.Notes, &tx.Date, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if counterparty.Valid {
			tx.CounterpartyID = counterparty.String
		}

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
