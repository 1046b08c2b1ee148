package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/coregx/gxpdf"
	"github.com/spf13/cobra"
)

var (
	tablesPage   int
	tablesOutput string
	tablesAll    bool
	tablesMethod string
)

var tablesCmd = &cobra.Command{
	Use:   "tables FILE",
	Short: "Extract tables from PDF",
	Long: `Extract tables from PDF files.

GxPDF detects tables with one of four methods:
  - auto:    tries ruling lines first, falls back to whitespace analysis
  - lattice: uses ruling lines (borders) to find cells
  - stream:  uses whitespace/alignment analysis for borderless tables
  - hybrid:  combines ruling detection, cell clustering, and text-edge
             alignment to find a table's extent before extracting it
             (best for scanned or loosely-bordered pages)

Output formats:
  - text: Human-readable table format (default)
  - csv:  Comma-separated values
  - json: JSON array of tables with rows and cells

Examples:
  gxpdf tables invoice.pdf
  gxpdf tables statement.pdf --format csv > rows.csv
  gxpdf tables report.pdf --page 2 --format json
  gxpdf tables scanned.pdf --method hybrid`,
	Args: cobra.ExactArgs(1),
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().IntVarP(&tablesPage, "page", "p", 0, "Extract from specific page (0 = all pages)")
	tablesCmd.Flags().StringVarP(&tablesOutput, "output", "o", "", "Output file (default: stdout)")
	tablesCmd.Flags().BoolVarP(&tablesAll, "all", "a", false, "No effect: every detected table is always output")
	tablesCmd.Flags().StringVarP(&tablesMethod, "method", "m", "auto", "Detection method: auto, lattice, stream, hybrid")
}

func parseExtractionMethod(name string) (gxpdf.ExtractionMethod, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return gxpdf.MethodAuto, nil
	case "lattice":
		return gxpdf.MethodLattice, nil
	case "stream":
		return gxpdf.MethodStream, nil
	case "hybrid":
		return gxpdf.MethodHybrid, nil
	default:
		return gxpdf.MethodAuto, fmt.Errorf("unknown method %q (want auto, lattice, stream, or hybrid)", name)
	}
}

func runTables(_ *cobra.Command, args []string) error {
	filePath := args[0]

	printVerbosef("Opening PDF: %s", filePath)

	doc, err := gxpdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer func() { _ = doc.Close() }()

	printVerbosef("PDF opened: %d pages", doc.PageCount())

	allTables, err := extractAllTables(doc)
	if err != nil {
		return err
	}

	if len(allTables) == 0 {
		printVerbosef("No tables found")
		return nil
	}

	printVerbosef("Found %d table(s)", len(allTables))

	return outputTables(allTables)
}

func extractAllTables(doc *gxpdf.Document) ([]extractedTable, error) {
	startPage, endPage, err := getPageRange(doc.PageCount())
	if err != nil {
		return nil, err
	}

	method, err := parseExtractionMethod(tablesMethod)
	if err != nil {
		return nil, err
	}
	opts := gxpdf.DefaultExtractionOptions().WithMethod(method)

	var allTables []extractedTable
	for pageNum := startPage; pageNum <= endPage; pageNum++ {
		printVerbosef("Processing page %d...", pageNum)

		page := doc.Page(pageNum - 1)
		if page == nil {
			continue
		}
		tables, err := page.ExtractTablesWithOptions(opts)
		if err != nil {
			printVerbosef("page %d: %v", pageNum, err)
			continue
		}
		for i, t := range tables {
			et := extractedTable{
				Page:    pageNum,
				Index:   i + 1,
				Rows:    t.RowCount(),
				Columns: t.ColumnCount(),
				Data:    t.Rows(),
			}
			allTables = append(allTables, et)
		}
	}
	return allTables, nil
}

func getPageRange(pageCount int) (start, end int, err error) {
	if tablesPage > 0 {
		if tablesPage > pageCount {
			return 0, 0, fmt.Errorf("page %d does not exist (document has %d pages)", tablesPage, pageCount)
		}
		return tablesPage, tablesPage, nil
	}
	return 1, pageCount, nil
}

func outputTables(allTables []extractedTable) error {
	out, cleanup, err := getOutput()
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	switch outputFormat {
	case "json":
		return outputTablesJSON(out, allTables)
	case "csv":
		return outputTablesCSV(out, allTables)
	default:
		return outputTablesText(out, allTables)
	}
}

func getOutput() (*os.File, func(), error) {
	if tablesOutput != "" {
		f, err := os.Create(tablesOutput) //nolint:gosec // G304: User-specified output file
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	return os.Stdout, nil, nil
}

type extractedTable struct {
	Page    int        `json:"page"`
	Index   int        `json:"index"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Data    [][]string `json:"data"`
}

func outputTablesJSON(out *os.File, tables []extractedTable) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tables)
}

func outputTablesCSV(out *os.File, tables []extractedTable) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	for _, t := range tables {
		// Write table header comment.
		if len(tables) > 1 {
			if err := writer.Write([]string{fmt.Sprintf("# Table %d (Page %d)", t.Index, t.Page)}); err != nil {
				return err
			}
		}
		// Write data rows.
		for _, row := range t.Data {
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

//nolint:unparam // Returns nil for consistency with other output functions.
func outputTablesText(out *os.File, tables []extractedTable) error {
	for i, t := range tables {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintf(out, "=== Table %d (Page %d, %d rows x %d columns) ===\n",
			t.Index, t.Page, t.Rows, t.Columns)

		colWidths := calculateColumnWidths(t)
		printTableRows(out, t.Data, colWidths)
	}
	return nil
}

func calculateColumnWidths(t extractedTable) []int {
	colWidths := make([]int, t.Columns)
	for _, row := range t.Data {
		for j, cell := range row {
			if j < len(colWidths) && len(cell) > colWidths[j] {
				colWidths[j] = len(cell)
			}
		}
	}
	return colWidths
}

func printTableRows(out *os.File, data [][]string, colWidths []int) {
	for _, row := range data {
		cells := make([]string, 0, len(row))
		for j, cell := range row {
			width := 10
			if j < len(colWidths) {
				width = colWidths[j]
			}
			cells = append(cells, fmt.Sprintf("%-*s", width, cell))
		}
		_, _ = fmt.Fprintln(out, strings.Join(cells, " | "))
	}
}
