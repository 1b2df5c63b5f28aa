package services

import (
	"testing"

	"github.com/gabaritai/backend/internal/models"
	"github.com/gabaritai/backend/internal/scoring"
)

func TestCustomAreas(t *testing.T) {
	tests := []struct {
		name    string
		project *models.Project
		want    int
	}{
		{"nil project", nil, 0},
		{"no config", &models.Project{}, 0},
		{"no areas key", &models.Project{Config: models.JSONB{"other": 1}}, 0},
		{"malformed areas", &models.Project{Config: models.JSONB{"areas": "nope"}}, 0},
		{
			"valid areas",
			&models.Project{Config: models.JSONB{"areas": []interface{}{
				map[string]interface{}{"area_code": "RED", "start_item": float64(1), "end_item": float64(30)},
				map[string]interface{}{"area_code": "MAT", "start_item": float64(31), "end_item": float64(60)},
			}}},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := customAreas(tt.project)
			if len(got) != tt.want {
				t.Fatalf("customAreas() len = %d, want %d", len(got), tt.want)
			}
			if tt.want > 0 {
				if got[0].AreaCode != "RED" || got[0].StartItem != 1 || got[0].EndItem != 30 {
					t.Errorf("customAreas()[0] = %+v", got[0])
				}
			}
		})
	}
}

func TestAttendedScores(t *testing.T) {
	all := map[string]scoring.AreaScoreResult{
		scoring.AreaLC: {AreaCode: scoring.AreaLC, CorrectCount: 30},
		scoring.AreaCH: {AreaCode: scoring.AreaCH, CorrectCount: 25},
		scoring.AreaCN: {AreaCode: scoring.AreaCN, CorrectCount: 20},
		scoring.AreaMT: {AreaCode: scoring.AreaMT, CorrectCount: 15},
	}

	tests := []struct {
		name  string
		s1    bool
		s2    bool
		wants []string
	}{
		{"both sessions", true, true, []string{scoring.AreaLC, scoring.AreaCH, scoring.AreaCN, scoring.AreaMT}},
		{"session 1 only", true, false, []string{scoring.AreaLC, scoring.AreaCH}},
		{"session 2 only", false, true, []string{scoring.AreaCN, scoring.AreaMT}},
		{"neither", false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attendedScores(all, tt.s1, tt.s2)
			if len(got) != len(tt.wants) {
				t.Fatalf("attendedScores() len = %d, want %d", len(got), len(tt.wants))
			}
			for _, code := range tt.wants {
				if _, ok := got[code]; !ok {
					t.Errorf("attendedScores() missing %s", code)
				}
			}
		})
	}
}

func TestAreaScoresJSONRoundTrip(t *testing.T) {
	in := map[string]scoring.AreaScoreResult{
		scoring.AreaLC: {
			AreaCode:        scoring.AreaLC,
			CorrectCount:    32,
			TotalItems:      45,
			RawScorePercent: 71.11,
			ScaledScore:     670.25,
		},
	}

	got := areaScoresFromJSON(areaScoresJSON(in))
	res, ok := got[scoring.AreaLC]
	if !ok {
		t.Fatal("round trip lost LC area")
	}
	if res != in[scoring.AreaLC] {
		t.Errorf("round trip = %+v, want %+v", res, in[scoring.AreaLC])
	}
}

func TestAreaScoresFromJSONEmpty(t *testing.T) {
	if got := areaScoresFromJSON(nil); got != nil {
		t.Errorf("areaScoresFromJSON(nil) = %v, want nil", got)
	}
	if got := areaScoresFromJSON(models.JSONB{}); got != nil {
		t.Errorf("areaScoresFromJSON(empty) = %v, want nil", got)
	}
}
