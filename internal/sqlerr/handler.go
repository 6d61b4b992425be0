package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/student-results/internal/errs"
)

// ConnectivityMessage is shown when the database cannot be reached.
const ConnectivityMessage = "Database connection failed. Please try again."

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// If err can be unwrapped into *sqlerr.Error, return its Code.
// Otherwise return sqlerr.Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Classify returns the Code for any error coming out of pgx.
//
// Besides SQLSTATE codes it recognizes failures that never reached the
// server: dial errors, timeouts, dropped connections, a closed pool.
func Classify(err error) Code {
	if err == nil {
		return Other
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return ConnectionFailure
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return ConnectionFailure
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ConnectionFailure
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ConnectionFailure
	}

	// pgxpool reports Acquire on a closed pool with a plain error.
	if strings.Contains(err.Error(), "closed pool") {
		return ConnectionFailure
	}

	return Other
}

// generateErrorCode creates consistent application error codes from DB errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	student + UniqueViolation => STUDENT_ALREADY_EXISTS
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Naive singularization: "STUDENTS" -> "STUDENT".
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, ExclusionViolation:
		action = "INVALID"
	case NumericOutOfRange:
		action = "OUT_OF_RANGE"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message.
func formatUserFriendlyMessage(sqlErr *Error) string {
	switch sqlErr.Code {
	case ForeignKeyViolation:
		// Postgres leaves ColumnName empty for FK errors; the constraint
		// name "result_student_id_fkey" still carries it.
		column := sqlErr.ColumnName
		if column == "" {
			column = extractColumnForForeignKey(sqlErr.TableName, sqlErr.ConstraintName)
		}
		return fmt.Sprintf("The referenced %s does not exist", getEntityName(sqlErr.TableName, column))

	case UniqueViolation:
		// "identifier" is replaced with the column when it can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", getEntityName(sqlErr.TableName, ""))

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = humanizeText(extractColumnForCheck(sqlErr.TableName, sqlErr.ConstraintName))
		}
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. If column ends with "_id", use that base name ("subject_id" -> "Subject").
//  2. Otherwise use table name, singularized if it ends with "s".
//  3. Otherwise fallback to "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case: "roll_no" -> "Roll No".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var keySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a unique constraint name.
//
// It supports two conventions, with the table name used to keep
// underscores inside the column intact:
//
//  1. "unique_<table>_<column>"  e.g. unique_student_roll_no -> "roll_no"
//  2. "<table>_<column>_key"     e.g. student_roll_no_key    -> "roll_no"
func extractColumnForUniqueViolation(tableName, constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if tableName != "" {
		if rest, ok := strings.CutPrefix(constraintName, "unique_"+tableName+"_"); ok {
			return rest
		}
		if rest, ok := strings.CutPrefix(constraintName, tableName+"_"); ok {
			for _, suffix := range []string{"_key", "_ukey"} {
				if col, ok := strings.CutSuffix(rest, suffix); ok {
					return col
				}
			}
		}
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := keySuffix.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// extractColumnForForeignKey reads "<table>_<column>_fkey".
func extractColumnForForeignKey(tableName, constraintName string) string {
	rest, ok := strings.CutSuffix(constraintName, "_fkey")
	if !ok {
		return ""
	}
	if tableName != "" {
		rest = strings.TrimPrefix(rest, tableName+"_")
	}
	return rest
}

// extractColumnForCheck reads "<table>_<column>_check".
func extractColumnForCheck(tableName, constraintName string) string {
	rest, ok := strings.CutSuffix(constraintName, "_check")
	if !ok {
		return ""
	}
	if tableName != "" {
		rest = strings.TrimPrefix(rest, tableName+"_")
	}
	return rest
}

// NotFound wraps pgx.ErrNoRows so HandleError can name the entity.
//
//	sqlerr.NotFound("student") -> "table:student: no rows in result set"
func NotFound(table string) error {
	return fmt.Errorf("table:%s: %w", table, pgx.ErrNoRows)
}

// HandleError converts a low-level database error into an application-level error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - connectivity failure: 503 errs.NewServiceUnavailableError
//   - integrity violation (class 23): 409 errs.NewConflictError
//   - numeric value out of range (22003): 400 errs.NewBadRequestError
//   - other pgconn.PgError: errs.NewInternalServerError
//   - ErrNoRows: 404 errs.NewNotFoundError
//   - anything else: errs.NewInternalServerError
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	// Never re-wrap an HTTPError.
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if Classify(err).IsConnectivity() {
		return errs.NewServiceUnavailableError(ConnectivityMessage)
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		if sqlErr.Code == NumericOutOfRange {
			errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
			return errs.NewBadRequestError("A number is out of range", true, &errorCode, nil, nil)
		}

		if !sqlErr.Code.IsIntegrityViolation() {
			// Unknown/other DB errors should not leak details to clients.
			return errs.NewInternalServerError()
		}

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		if sqlErr.Code == UniqueViolation {
			if columnName := extractColumnForUniqueViolation(sqlErr.TableName, sqlErr.ConstraintName); columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
		}

		return errs.NewConflictError(userMessage, true, &errorCode)
	}

	// Both pgx and database/sql define ErrNoRows.
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		errMsg := err.Error()
		tablePrefix := "table:"
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found.", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
