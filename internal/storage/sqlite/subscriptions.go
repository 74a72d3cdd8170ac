package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateSubscription persists a new subscription.
func (s *SQLiteStore) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt == 0 {
		sub.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, owner_id, name, amount, cycle, category, next_billing_date, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.OwnerID, sub.Name, sub.Amount, string(sub.Cycle),
		sub.Category, sub.NextBillingDate, sub.Active, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

// GetSubscription retrieves a subscription by ID.
func (s *SQLiteStore) GetSubscription(ctx context.Context, subID string) (*models.Subscription, error) {
	sub, err := scanSubscription(s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, amount, cycle, category, next_billing_date, active, created_at
		 FROM subscriptions WHERE id = ?`,
		subID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("subscription %s: %w", subID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// ListSubscriptions retrieves all subscriptions of ownerID.
func (s *SQLiteStore) ListSubscriptions(ctx context.Context, ownerID string) ([]*models.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, amount, cycle, category, next_billing_date, active, created_at
		 FROM subscriptions WHERE owner_id = ? ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return subs, nil
}

// DeleteSubscription removes a subscription by ID.
func (s *SQLiteStore) DeleteSubscription(ctx context.Context, subID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ?", subID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("subscription %s: %w", subID, storage.ErrNotFound)
	}
	return nil
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var cycle string
	err := row.Scan(&sub.ID, &sub.OwnerID, &sub.Name, &sub.Amount, &cycle,
		&sub.Category, &sub.NextBillingDate, &sub.Active, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	sub.Cycle = models.BillingCycle(cycle)
	return sub, nil
}
