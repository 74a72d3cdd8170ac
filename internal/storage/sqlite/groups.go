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

// CreateGroup persists a new group with its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.OwnerID, group.Name, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, member := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, person_id, position) VALUES (?, ?, ?)",
			group.ID, member, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.OwnerID, &group.Name, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.groupMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return group, nil
}

// ListGroups retrieves all groups owned by ownerID.
func (s *SQLiteStore) ListGroups(ctx context.Context, ownerID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, created_at FROM groups WHERE owner_id = ? ORDER BY created_at DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.OwnerID, &group.Name, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.groupMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}
	return groups, nil
}

// AddGroupMembers appends members to a group, skipping existing ones.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, members []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM group_members WHERE group_id = ?",
		groupID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read member positions: %w", err)
	}

	for _, member := range members {
		result, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, person_id, position) VALUES (?, ?, ?)",
			groupID, member, next,
		)
		if err != nil {
			return fmt.Errorf("failed to add group member: %w", err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			next++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// CreateGroupExpense persists a new group expense with the people sharing it.
func (s *SQLiteStore) CreateGroupExpense(ctx context.Context, expense *models.GroupExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_expenses (id, group_id, title, amount, paid_by, category, notes, is_settled, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Title, expense.Amount, expense.PaidBy,
		expense.Category, expense.Notes, expense.IsSettled, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group expense: %w", err)
	}

	for i, person := range expense.SplitBetween {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_expense_splits (expense_id, person_id, position) VALUES (?, ?, ?)",
			expense.ID, person, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const groupExpenseColumns = `e.id, e.group_id, e.title, e.amount, e.paid_by, e.category, e.notes, e.is_settled, e.date, e.created_at`

// GetGroupExpense retrieves one group expense by ID.
func (s *SQLiteStore) GetGroupExpense(ctx context.Context, expenseID string) (*models.GroupExpense, error) {
	expense, err := scanGroupExpense(s.db.QueryRowContext(ctx,
		"SELECT "+groupExpenseColumns+" FROM group_expenses e WHERE e.id = ?",
		expenseID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group expense: %w", err)
	}

	if err := s.loadExpenseSplits(ctx, []*models.GroupExpense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListGroupExpenses retrieves the expenses of one group.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.GroupExpense, error) {
	return s.queryGroupExpenses(ctx,
		"SELECT "+groupExpenseColumns+" FROM group_expenses e WHERE e.group_id = ? ORDER BY e.date DESC, e.created_at DESC",
		groupID,
	)
}

// ListGroupExpensesByOwner retrieves the expenses of every group ownerID owns.
func (s *SQLiteStore) ListGroupExpensesByOwner(ctx context.Context, ownerID string) ([]*models.GroupExpense, error) {
	return s.queryGroupExpenses(ctx,
		"SELECT "+groupExpenseColumns+` FROM group_expenses e
		 JOIN groups g ON g.id = e.group_id
		 WHERE g.owner_id = ? ORDER BY e.date DESC, e.created_at DESC`,
		ownerID,
	)
}

// SetGroupExpenseSettled flips the settled flag of an expense.
func (s *SQLiteStore) SetGroupExpenseSettled(ctx context.Context, expenseID string, settled bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE group_expenses SET is_settled = ? WHERE id = ?",
		settled, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) queryGroupExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.GroupExpense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}

	var expenses []*models.GroupExpense
	for rows.Next() {
		expense, err := scanGroupExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group expenses: %w", err)
	}

	if err := s.loadExpenseSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *SQLiteStore) loadExpenseSplits(ctx context.Context, expenses []*models.GroupExpense) error {
	for _, expense := range expenses {
		rows, err := s.db.QueryContext(ctx,
			"SELECT person_id FROM group_expense_splits WHERE expense_id = ? ORDER BY position",
			expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get group expense splits: %w", err)
		}
		for rows.Next() {
			var person string
			if err := rows.Scan(&person); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan group expense split: %w", err)
			}
			expense.SplitBetween = append(expense.SplitBetween, person)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate group expense splits: %w", err)
		}
	}
	return nil
}

func scanGroupExpense(row rowScanner) (*models.GroupExpense, error) {
	expense := &models.GroupExpense{}
	err := row.Scan(&expense.ID, &expense.GroupID, &expense.Title, &expense.Amount, &expense.PaidBy,
		&expense.Category, &expense.Notes, &expense.IsSettled, &expense.Date, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	return expense, nil
}
