// Package interfaces defines service contracts for stockbrief
package interfaces

import (
	"context"
	"io"
)

// StockDirectory resolves instrument metadata for allocation codes.
type StockDirectory interface {
	// Lookup returns the name and sector for code; ok is false when unknown
	Lookup(code string) (name, sector string, ok bool)
}

// ReportStore persists rendered report files.
type ReportStore interface {
	// Save writes a report atomically, replacing any previous report of the same name
	Save(ctx context.Context, name string, data []byte) error

	// Open returns a reader for a stored report
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Exists checks if a report has been written
	Exists(ctx context.Context, name string) (bool, error)

	// List returns stored report names, newest first
	List(ctx context.Context) ([]string, error)

	// Location describes where a report is stored, for logs and CLI output
	Location(name string) string
}
