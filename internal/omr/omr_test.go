package omr

import (
	"testing"
)

func TestParseResult(t *testing.T) {
	payload := []byte(`{
		"status": "ok",
		"pagina": {
			"pagina": 1,
			"resultado": {
				"questoes": [
					{"numero": 1, "resposta": "A", "invalida": false},
					{"numero": 2, "resposta": "", "invalida": false},
					{"numero": 3, "resposta": "X", "invalida": true, "motivo": "dupla marcacao"}
				],
				"respondidas": 1,
				"em_branco": 1,
				"dupla_marcacao": 1
			}
		},
		"elapsed_ms": 412
	}`)

	res, err := ParseResult(payload)
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}
	if res.Page.Page != 1 {
		t.Errorf("Page = %d, want 1", res.Page.Page)
	}
	if got := len(res.Page.Result.Questions); got != 3 {
		t.Fatalf("Questions len = %d, want 3", got)
	}
	if res.Page.Result.DoubleMarks != 1 {
		t.Errorf("DoubleMarks = %d, want 1", res.Page.Result.DoubleMarks)
	}
	if res.Page.Result.Questions[2].Reason != "dupla marcacao" {
		t.Errorf("Reason = %q", res.Page.Result.Questions[2].Reason)
	}
	if res.ElapsedMS != 412 {
		t.Errorf("ElapsedMS = %d, want 412", res.ElapsedMS)
	}
}

func TestParseResultErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"status": "ok"`},
		{"failed status", `{"status": "erro", "pagina": {"pagina": 0, "resultado": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseResult([]byte(tt.payload)); err == nil {
				t.Error("ParseResult() expected error, got nil")
			}
		})
	}
}

func TestAnswerSlice(t *testing.T) {
	res := &Result{
		Status: "ok",
		Page: Page{
			Page: 1,
			Result: PageResult{
				Questions: []Question{
					{Number: 1, Answer: "a"},
					{Number: 3, Answer: " B "},
					{Number: 5, Answer: "X", Invalid: true},
					{Number: 0, Answer: "C"},
					{Number: 99, Answer: "D"},
				},
			},
		},
	}

	got := res.AnswerSlice(5)
	want := []string{"A", "", "B", "", "X"}
	if len(got) != len(want) {
		t.Fatalf("AnswerSlice len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AnswerSlice[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidSheetCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"XTRI-A2B3C4", true},
		{"XTRI-ZZZZZZ", true},
		{"XTRI-A1B3C4", false},
		{"XTRI-A0B3C4", false},
		{"XTRI-abcdef", false},
		{"XTRI-A2B3C", false},
		{"YTRI-A2B3C4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ValidSheetCode.MatchString(tt.code); got != tt.valid {
				t.Errorf("ValidSheetCode.MatchString(%q) = %v, want %v", tt.code, got, tt.valid)
			}
		})
	}
}
