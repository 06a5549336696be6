// Package models defines the core domain models for Divvy.
//
// The following models map one-to-one onto the relational schema:
//   - User: a registered account (email login, mutable username)
//   - Group: a named expense-sharing group owned by one admin
//   - Membership: the (user, group) association with an active/removed state
//   - Expense: a single spend record attributed to one creator within one group
//
// # Design Principles
//
//  1. Identifiers are positive int64 values assigned by the database.
//  2. Relationships use IDs, not pointers, to avoid circular references.
//  3. Memberships are soft-deleted (Removed flag) so group history survives
//     member removal; every read path filters to active rows.
//  4. Read models that join across tables (Member, GroupSummary, the
//     CreatedByName annotation on Expense) live here too so the service
//     layer can return them without redefining shapes per handler.
package models
