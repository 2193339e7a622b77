// Package export renders normalized structures as CSV for download.
//
// Output goes through encoding/csv, so fields containing commas or quotes are
// RFC 4180 quoted. The dashboard this replaces joined fields with bare
// commas; that unquoted format corrupts rows whenever a county name contains
// a comma, so the quoted form is used deliberately.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/civicsignal/econdash/internal/domain"
)

// ChartRows writes chart rows as CSV: a year column followed by one column
// per code, in the given order. labels maps codes to header names; codes
// without a label fall back to the code itself.
func ChartRows(w io.Writer, rows []domain.ChartRow, codes []string, labels map[string]string) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(codes)+1)
	header = append(header, "year")
	for _, code := range codes {
		if label, ok := labels[code]; ok && label != "" {
			header = append(header, label)
			continue
		}
		header = append(header, code)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, 0, len(codes)+1)
		record = append(record, row.Year)
		for _, code := range codes {
			record = append(record, strconv.FormatFloat(row.Values[code], 'f', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// GapRecords writes gap analysis records as CSV.
func GapRecords(w io.Writer, records []domain.GapRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"code", "name", "category", "value1", "value2", "absolute_gap", "percentage_gap", "higher_location", "direction"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		record := []string{
			r.Code,
			r.Name,
			r.Category,
			strconv.FormatFloat(r.Value1, 'f', -1, 64),
			strconv.FormatFloat(r.Value2, 'f', -1, 64),
			strconv.FormatFloat(r.AbsoluteGap, 'f', -1, 64),
			strconv.FormatFloat(r.PercentageGap, 'f', -1, 64),
			r.HigherLocation,
			r.Direction,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
