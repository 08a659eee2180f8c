package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"picktrack/internal/models"
)

// The upstream export carries exactly these six columns. Values are kept as
// raw text end to end so identifiers keep their leading zeros.
var requiredColumns = []string{"ORDER_", "DESPATCH_", "ITEM", "DESCRIPTION", "QTY", "CUSTOMER_NAME"}

// Lookup failures the handler maps to a 404. The two conditions stay
// distinguishable by message even though they share a status.
var (
	ErrSourceMissing = errors.New("the picking data source file is missing")
	ErrOrderNotFound = errors.New("order not found")
)

// SourceSchemaError reports required columns absent from the export. It is
// a server configuration problem, not a lookup miss.
type SourceSchemaError struct {
	Missing []string
}

func (e *SourceSchemaError) Error() string {
	return fmt.Sprintf("the picking CSV does not have the expected columns (missing: %s)", strings.Join(e.Missing, ", "))
}

// OrderSource reads the picking-notes CSV fresh on every lookup. No caching:
// the file is maintained by an upstream system and may be replaced between
// requests.
type OrderSource struct {
	path string
}

func NewOrderSource(path string) *OrderSource {
	return &OrderSource{path: path}
}

// Lookup returns the rows whose ORDER_ and DESPATCH_ fields exactly equal
// the given identifiers, renamed to the presentation schema. Comparison is
// case-sensitive with no trimming.
func (s *OrderSource) Lookup(ctx context.Context, orderNumber, despatchNumber string) ([]*models.PickingOrderLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSourceMissing
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse picking CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, &SourceSchemaError{Missing: requiredColumns}
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SourceSchemaError{Missing: missing}
	}

	var lines []*models.PickingOrderLine
	for _, row := range records[1:] {
		if rawCell(row, index["ORDER_"]) != orderNumber || rawCell(row, index["DESPATCH_"]) != despatchNumber {
			continue
		}
		lines = append(lines, &models.PickingOrderLine{
			OrderNumber:     cell(row, index["ORDER_"]),
			DespatchNumber:  cell(row, index["DESPATCH_"]),
			ItemCode:        cell(row, index["ITEM"]),
			ItemDescription: cell(row, index["DESCRIPTION"]),
			Qty:             cell(row, index["QTY"]),
			CustomerName:    cell(row, index["CUSTOMER_NAME"]),
		})
	}

	if len(lines) == 0 {
		return nil, ErrOrderNotFound
	}
	return lines, nil
}

func rawCell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// cell normalizes an empty or absent CSV cell to nil so it renders as JSON
// null rather than an empty string.
func cell(row []string, i int) *string {
	v := rawCell(row, i)
	if v == "" {
		return nil
	}
	return &v
}
