// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Every statement goes through the gateway in internal/database, so
// failures come back already classified as *errs.HTTPError.
package repository
