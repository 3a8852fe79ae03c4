// Package models defines the core domain models for the consortium manager.
//
// # Entities
//
//   - User: a login account with one of three roles (admin, manager, member)
//   - Group: a fixed-size rotating savings circle owned by a manager
//   - Participant: one person's seat in one group (a user may hold seats in
//     several groups, each a separate Participant row)
//   - Installment: one month's obligation for one participant
//   - DrawEntry: audit record of one participant's assigned payout position
//
// # Design Principles
//
// 1. **ID strings instead of pointers** for relationships, to avoid circular
// references between entities.
// 2. **Date-only fields are ISO strings** ("2006-01-02"). They compare
// correctly both lexically and in SQL, and round-trip through JSON without a
// custom marshaller. Timestamps (CreatedAt, DrawnAt) are Unix seconds.
// 3. **Money is float64 rounded to 2 decimals** at computation time; nothing
// downstream re-rounds.
package models
