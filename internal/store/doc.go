// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// CardRow is the single flat representation of a card shared by the SQL
// implementations; converting through it keeps the scheduling state of a card
// identical after a write and a read.
package store
