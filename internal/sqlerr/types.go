package sqlerr

import "fmt"

// Code is the category of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	ConnectionFailure   Code = "connection_failure"
	TooManyConnections  Code = "too_many_connections"
	QueryCanceled       Code = "query_canceled"
	UndefinedTable      Code = "undefined_table"
	UndefinedFunction   Code = "undefined_function"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
)

// Severity mirrors the postgres severity field.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized postgres error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (pe *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", pe.Severity, pe.Message, pe.DatabaseCode)
}

func (pe *Error) Unwrap() error {
	return pe.driverErr
}

// MapCode maps a SQLSTATE onto a Code.
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "08000", "08001", "08003", "08004", "08006", "57P01", "57P02", "57P03":
		return ConnectionFailure
	case "53300":
		return TooManyConnections
	case "57014":
		return QueryCanceled
	case "42P01":
		return UndefinedTable
	case "42883":
		return UndefinedFunction
	case "22003":
		return NumericOutOfRange
	default:
		return Other
	}
}

// MapSeverity maps the postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}

// IsIntegrityViolation reports whether c is one of the class 23 codes.
func (c Code) IsIntegrityViolation() bool {
	switch c {
	case NotNullViolation, ForeignKeyViolation, UniqueViolation, CheckViolation, ExclusionViolation:
		return true
	}
	return false
}

// IsConnectivity reports whether c means the database could not serve
// the request at all.
func (c Code) IsConnectivity() bool {
	return c == ConnectionFailure || c == TooManyConnections
}
