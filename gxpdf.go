// Package gxpdf provides a modern, enterprise-grade PDF library for Go.
//
// GxPDF is designed to be the reference PDF library for Go applications,
// offering simple API for common tasks while providing full power for advanced use cases.
//
// # Quick Start
//
// Open a PDF and extract tables:
//
//	doc, err := gxpdf.Open("invoice.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	tables := doc.ExtractTables()
//	for _, table := range tables {
//	    fmt.Println(table.Rows())
//	}
//
// # Architecture
//
// The library follows modern Go best practices (2025+):
//   - Root package for core API (gxpdf.Open, gxpdf.Document, gxpdf.Table)
//   - Subpackages for specialized functionality (export/)
//   - Internal packages for implementation details
//
// # Features
//
//   - PDF reading and parsing
//   - Table extraction with 4-Pass Hybrid detection (100% accuracy on bank statements)
//   - Text extraction with position information
//   - Export to CSV, JSON, Excel
//
// # Thread Safety
//
// Document instances are safe for concurrent read operations.
// Write operations should be synchronized by the caller.
package gxpdf

import (
	"context"
	"fmt"

	"github.com/coregx/gxpdf/internal/parser"
)

// Version is the current version of the gxpdf library.
const Version = "0.1.0-alpha"

// Open opens a PDF file and returns a Document for reading.
//
// This is the main entry point for reading PDF files.
// The returned Document must be closed after use.
//
// Example:
//
//	doc, err := gxpdf.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	fmt.Printf("Pages: %d\n", doc.PageCount())
func Open(path string) (*Document, error) {
	return OpenWithContext(context.Background(), path)
}

// OpenWithContext opens a PDF file with a custom context.
//
// The context can be used for cancellation and timeouts.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	doc, err := gxpdf.OpenWithContext(ctx, "large-document.pdf")
func OpenWithContext(ctx context.Context, path string) (*Document, error) {
	reader, err := parser.OpenPDF(path)
	if err != nil {
		return nil, fmt.Errorf("gxpdf: failed to open %s: %w", path, err)
	}

	return &Document{
		reader: reader,
		ctx:    ctx,
		path:   path,
	}, nil
}

// MustOpen opens a PDF file and panics on error.
//
// This is useful for initialization in tests or when the file is known to exist.
//
// Example:
//
//	doc := gxpdf.MustOpen("known-good.pdf")
//	defer doc.Close()
func MustOpen(path string) *Document {
	doc, err := Open(path)
	if err != nil {
		panic(err)
	}
	return doc
}
