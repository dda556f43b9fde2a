// Package csvimport parses bulk blog-review import files. Both the Korean
// header set used by the operations team and an English equivalent are
// accepted; rows without a blog URL are skipped.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one parsed import record. URL is the only required column.
type Row struct {
	URL           string
	ClinicName    string
	ClinicAddress string
	Category      string
	Notes         string
}

// Header names, Korean and English variants. The category column is optional
// in both sets.
var (
	koreanHeaders = map[string]string{
		"네이버 블로그 링크": "url",
		"한의원명(있으면)":  "clinic_name",
		"한의원 주소":     "clinic_address",
		"카테고리":       "category",
		"비고":         "notes",
	}
	englishHeaders = map[string]string{
		"blog_url":       "url",
		"clinic_name":    "clinic_name",
		"clinic_address": "clinic_address",
		"category":       "category",
		"notes":          "notes",
	}
)

var requiredColumns = []string{"url", "clinic_name", "clinic_address", "notes"}

// ErrNoHeader indicates the file did not start with a recognized header row.
var ErrNoHeader = errors.New("csv header is missing required columns")

// Parse reads the whole CSV stream and returns the import rows.
// The first record must be a header matching either the Korean or the
// English column set. Quoting follows RFC 4180 (encoding/csv).
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		row := Row{
			URL:           field("url"),
			ClinicName:    field("clinic_name"),
			ClinicAddress: field("clinic_address"),
			Category:      field("category"),
			Notes:         field("notes"),
		}
		if row.URL == "" {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// mapHeader resolves header cells to canonical column names and verifies the
// required columns are all present in one of the two header sets.
func mapHeader(header []string) (map[string]int, error) {
	for _, set := range []map[string]string{koreanHeaders, englishHeaders} {
		columns := make(map[string]int)
		for i, cell := range header {
			cell = strings.TrimSpace(strings.Trim(strings.TrimSpace(cell), `"`))
			if name, ok := set[cell]; ok {
				columns[name] = i
			}
		}
		complete := true
		for _, required := range requiredColumns {
			if _, ok := columns[required]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return columns, nil
		}
	}
	return nil, ErrNoHeader
}
