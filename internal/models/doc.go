// Package models defines the core domain models for splitledger.
//
// # Entities
//
//   - SplitBill: one bill shared among people, with its SplitMethod and the
//     per-person SplitParticipant records derived from it
//   - Group / GroupExpense: a reusable member list and equal-split expenses
//     paid by one member
//   - Transaction: a direct money movement, optionally with a counterparty
//   - Subscription: a recurring charge with a billing cycle
//   - Person / User: counterparties and registered accounts
//
// # Conventions
//
//  1. Money is decimal.Decimal in one abstract currency unit; formatting for a
//     locale happens outside this module.
//  2. Relationships use ID strings, never pointers.
//  3. Every record a user creates carries an owner ID and is only visible to
//     that owner.
//  4. Counterparty amounts are signed: positive means the other person owes
//     the current user.
package models
