package omr

import (
	"strings"
	"testing"
)

func TestParseRoster(t *testing.T) {
	input := "MATRICULA;NOME;TURMA\n" +
		"20240101;Ana Souza;3A\n" +
		"20240102;Bruno Lima;3B\n" +
		";Sem Matricula;3A\n" +
		"20240103; Carla Dias ; 3A \n"

	entries, err := ParseRoster(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRoster() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries len = %d, want 3", len(entries))
	}
	if entries[0].StudentID != "20240101" || entries[0].DisplayName != "Ana Souza" || entries[0].ClassGroup != "3A" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[2].DisplayName != "Carla Dias" {
		t.Errorf("entries[2].DisplayName = %q, want trimmed name", entries[2].DisplayName)
	}
}

func TestParseRosterHeaderCase(t *testing.T) {
	input := "matricula;nome;turma\n20240101;Ana;3A\n"
	entries, err := ParseRoster(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRoster() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries len = %d, want 1", len(entries))
	}
}

func TestParseRosterErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"wrong header", "ID;NAME;CLASS\n1;Ana;3A\n"},
		{"short header", "MATRICULA;NOME\n"},
		{"short row", "MATRICULA;NOME;TURMA\n20240101;Ana\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRoster(strings.NewReader(tt.input)); err == nil {
				t.Error("ParseRoster() expected error, got nil")
			}
		})
	}
}
