// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes from the pgx driver and connection failures,
// and converts them into *errs.HTTPError values with user-friendly
// messages (e.g. turning a unique violation on roll_no into
// "A Student with this Roll No already exists").
package sqlerr
