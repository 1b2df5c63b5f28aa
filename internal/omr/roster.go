package omr

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RosterEntry is one student row from an enrollment export.
type RosterEntry struct {
	StudentID   string
	DisplayName string
	ClassGroup  string
}

// ParseRoster reads a semicolon-delimited enrollment CSV with a
// MATRICULA;NOME;TURMA header. Rows with an empty student ID are
// dropped; short rows are an error.
func ParseRoster(r io.Reader) ([]RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("roster is empty: %w", err)
	}
	if len(header) < 3 || !strings.EqualFold(strings.TrimSpace(header[0]), "MATRICULA") {
		return nil, fmt.Errorf("unexpected roster header: %v", header)
	}

	var entries []RosterEntry
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("roster line %d: %w", line, err)
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("roster line %d: expected 3 fields, got %d", line, len(record))
		}
		id := strings.TrimSpace(record[0])
		if id == "" {
			continue
		}
		entries = append(entries, RosterEntry{
			StudentID:   id,
			DisplayName: strings.TrimSpace(record[1]),
			ClassGroup:  strings.TrimSpace(record[2]),
		})
	}
	return entries, nil
}
