// Package models defines the domain records shared by the calculator,
// validation, storage and service layers.
//
// Relationships are expressed with ID strings, never pointers: a Group lists
// member user IDs and an Expense references its group, payer and participants
// by ID. Monetary amounts on an Expense are always in the owning group's
// master currency except OriginalAmount, which is kept for display.
package models
