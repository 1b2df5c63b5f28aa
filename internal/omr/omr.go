// Package omr parses the payloads produced by the external optical
// mark recognition service and converts them into answer slices the
// scoring engine understands.
package omr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ValidSheetCode matches the code printed on every answer sheet. The
// alphabet drops letters and digits the reader confuses (0/O, 1/I).
var ValidSheetCode = regexp.MustCompile(`^XTRI-[A-Z2-9]{6}$`)

// Question is a single recognized item. Field names follow the wire
// format of the recognition service.
type Question struct {
	Number  int    `json:"numero"`
	Answer  string `json:"resposta"`
	Invalid bool   `json:"invalida"`
	Reason  string `json:"motivo,omitempty"`
}

// PageResult holds the per-page recognition summary.
type PageResult struct {
	Questions   []Question `json:"questoes"`
	Answered    int        `json:"respondidas"`
	Blank       int        `json:"em_branco"`
	DoubleMarks int        `json:"dupla_marcacao"`
}

// Page wraps a page number with its result.
type Page struct {
	Page   int        `json:"pagina"`
	Result PageResult `json:"resultado"`
}

// Result is the top-level recognition response for one sheet.
type Result struct {
	Status    string `json:"status"`
	Page      Page   `json:"pagina"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// ParseResult decodes a recognition response and rejects payloads
// whose status is not "ok".
func ParseResult(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("invalid recognition payload: %w", err)
	}
	if res.Status != "ok" {
		return nil, fmt.Errorf("recognition failed with status %q", res.Status)
	}
	return &res, nil
}

// AnswerSlice flattens the recognized questions into a slice of
// totalItems entries indexed by item number. Unrecognized or missing
// items stay blank; double marks keep the "X" marker so downstream
// counts treat them as unanswerable.
func (r *Result) AnswerSlice(totalItems int) []string {
	answers := make([]string, totalItems)
	for _, q := range r.Page.Result.Questions {
		if q.Number < 1 || q.Number > totalItems {
			continue
		}
		answers[q.Number-1] = strings.ToUpper(strings.TrimSpace(q.Answer))
	}
	return answers
}
