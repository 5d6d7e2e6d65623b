package db

import (
	"fmt"
)

// ConnectionError reports that the database could not be reached or rejected
// the credentials.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ExecutionError reports a failed SQL script, tagged with its description.
type ExecutionError struct {
	Description string
	Err         error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Description, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Kinds of schema objects checked by the verifier.
const (
	KindTable  = "table"
	KindColumn = "column"
	KindIndex  = "index"
)

// SchemaMismatchError names the first required schema object found missing.
type SchemaMismatchError struct {
	Kind  string
	Name  string
	Table string
}

func (e *SchemaMismatchError) Error() string {
	if e.Kind == KindColumn {
		return fmt.Sprintf("required column '%s' does not exist in %s", e.Name, e.Table)
	}
	return fmt.Sprintf("required %s '%s' does not exist", e.Kind, e.Name)
}

// EmptyResultError reports that seeding ran without error but left no sample
// users behind.
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "no sample data found after seeding"
}
