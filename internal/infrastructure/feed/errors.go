package feed

import (
	"fmt"
	"strings"
)

// RowError is a feed row that could not be turned into a record
type RowError struct {
	Line    int
	Column  string
	Message string
	Value   string
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column '%s': %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrorCollection keeps the first row errors of a feed and counts the rest
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection keeping at most maxErrors errors
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records err
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a missing value
func (ec *ErrorCollection) AddRequired(line int, column string) {
	ec.Add(RowError{Line: line, Column: column, Message: "value is required"})
}

// AddFormat records a value not matching the expected format
func (ec *ErrorCollection) AddFormat(line int, column, expected, value string) {
	ec.Add(RowError{
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf("invalid format, expected %s", expected),
		Value:   value,
	})
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the number of errors including those not kept
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors reports whether any error was added
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// String lists the kept errors
func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.totalCount)
	if ec.totalCount > ec.maxErrors {
		fmt.Fprintf(&sb, " (showing first %d)", ec.maxErrors)
	}
	sb.WriteString(":\n")
	for _, err := range ec.errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}
