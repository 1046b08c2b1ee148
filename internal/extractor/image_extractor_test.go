package extractor

import (
	"testing"

	"github.com/coregx/gxpdf/internal/parser"
)

func TestImageExtractor_ExtractFromPage(t *testing.T) {
	// This test requires a real PDF with images
	// For now, we'll test the error handling with a minimal PDF

	t.Run("extract from page with no images", func(t *testing.T) {
		// Create a minimal PDF without images for testing
		// This would require a test PDF file

		t.Skip("Requires test PDF file with images")
	})

	t.Run("extract from invalid page", func(t *testing.T) {
		t.Skip("Requires test PDF file")
	})
}

func TestImageExtractor_ExtractFromDocument(t *testing.T) {
	t.Run("extract from document with no images", func(t *testing.T) {
		t.Skip("Requires test PDF file")
	})

	t.Run("extract from document with multiple pages", func(t *testing.T) {
		t.Skip("Requires test PDF file with images")
	})
}

func TestImageExtractor_getColorSpaceName(t *testing.T) {
	// Create a dummy reader for testing
	reader := parser.NewReader("dummy.pdf")
	extractor := NewImageExtractor(reader)

	tests := []struct {
		name     string
		obj      interface{} // Will be converted to parser.PdfObject in implementation
		expected string
	}{
		{
			name:     "nil object",
			obj:      nil,
			expected: "DeviceRGB", // Default
		},
		// Additional tests would require parser.Name and parser.Array objects
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// This test is simplified - full tests would require mock objects
			result := extractor.getColorSpaceName(nil)
			if result != tt.expected {
				t.Errorf("getColorSpaceName() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestImageExtractor_getFilterName(t *testing.T) {
	// Create a dummy reader for testing
	reader := parser.NewReader("dummy.pdf")
	extractor := NewImageExtractor(reader)

	tests := []struct {
		name     string
		obj      interface{} // Will be converted to parser.PdfObject in implementation
		expected string
	}{
		{
			name:     "nil object",
			obj:      nil,
			expected: "", // No filter
		},
		// Additional tests would require parser.Name and parser.Array objects
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// This test is simplified - full tests would require mock objects
			result := extractor.getFilterName(nil)
			if result != tt.expected {
				t.Errorf("getFilterName() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// Note: Full integration tests require actual PDF files with embedded images.
// These tests should be added to the examples/image-extraction directory
// with real PDF test fixtures.
