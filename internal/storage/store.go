// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services need.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer. List methods return records owned by
// the given user, newest first.
type Store interface {
	UserStore

	// SavePerson inserts or updates a person. An empty ID is generated.
	SavePerson(ctx context.Context, person *models.Person) error
	GetPerson(ctx context.Context, personID string) (*models.Person, error)
	ListPeople(ctx context.Context, ownerID string) ([]*models.Person, error)

	// CreateSplitBill persists a bill with its participants in one
	// transaction. Bill and participant IDs are generated when empty.
	CreateSplitBill(ctx context.Context, bill *models.SplitBill) error
	// GetSplitBill returns the bill even if it was soft deleted.
	GetSplitBill(ctx context.Context, billID string) (*models.SplitBill, error)
	// UpdateSplitBillSettlement saves the paid state of every participant.
	UpdateSplitBillSettlement(ctx context.Context, bill *models.SplitBill) error
	// DeleteSplitBill soft deletes a bill.
	DeleteSplitBill(ctx context.Context, billID string) error
	// ListSplitBills omits soft-deleted bills.
	ListSplitBills(ctx context.Context, ownerID string) ([]*models.SplitBill, error)

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context, ownerID string) ([]*models.Group, error)
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	CreateGroupExpense(ctx context.Context, expense *models.GroupExpense) error
	GetGroupExpense(ctx context.Context, expenseID string) (*models.GroupExpense, error)
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.GroupExpense, error)
	// ListGroupExpensesByOwner returns the expenses of every group ownerID owns.
	ListGroupExpensesByOwner(ctx context.Context, ownerID string) ([]*models.GroupExpense, error)
	SetGroupExpenseSettled(ctx context.Context, expenseID string, settled bool) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, ownerID string) ([]*models.Transaction, error)

	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	GetSubscription(ctx context.Context, subID string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, ownerID string) ([]*models.Subscription, error)
	DeleteSubscription(ctx context.Context, subID string) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore holds the account operations used by authentication.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
