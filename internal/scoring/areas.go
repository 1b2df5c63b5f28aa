package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Knowledge-area codes, following the national exam nomenclature.
const (
	AreaLC = "LC" // Linguagens e Códigos
	AreaCH = "CH" // Ciências Humanas
	AreaCN = "CN" // Ciências da Natureza
	AreaMT = "MT" // Matemática
)

const (
	// SessionItems is the number of items on one session's sheet.
	SessionItems = 90
	// FullExamItems is the item count of the consolidated two-session exam.
	FullExamItems = 180
)

var session1Areas = []AreaDefinition{
	{AreaCode: AreaLC, StartItem: 1, EndItem: 45},
	{AreaCode: AreaCH, StartItem: 46, EndItem: 90},
}

var session2Areas = []AreaDefinition{
	{AreaCode: AreaCN, StartItem: 91, EndItem: 135},
	{AreaCode: AreaMT, StartItem: 136, EndItem: 180},
}

var fullExamAreas = []AreaDefinition{
	{AreaCode: AreaLC, StartItem: 1, EndItem: 45},
	{AreaCode: AreaCH, StartItem: 46, EndItem: 90},
	{AreaCode: AreaCN, StartItem: 91, EndItem: 135},
	{AreaCode: AreaMT, StartItem: 136, EndItem: 180},
}

// SessionAreaCodes returns the area codes covered by session 1 or 2.
func SessionAreaCodes(session int) []string {
	if session == 2 {
		return []string{AreaCN, AreaMT}
	}
	return []string{AreaLC, AreaCH}
}

var templateNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTemplateID folds a template identifier for matching: lower
// case, diacritics stripped, non-alphanumerics removed. "ENEM Dia-1" and
// "enem dia 1" normalize to the same value.
func NormalizeTemplateID(templateID string) string {
	folded, _, err := transform.String(templateNormalizer, strings.ToLower(templateID))
	if err != nil {
		folded = strings.ToLower(templateID)
	}

	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveAreas maps a template identifier and item count to the area
// ranges scored for that exam. Session and full-exam templates resolve to
// the fixed national layout. Anything else is a custom exam: its areas
// come from the supplied configuration, or, absent one, from the item
// count when it matches a known layout. A custom exam under 90 items with
// no configured ranges resolves to no areas at all, which disables
// area-level scoring for it.
func ResolveAreas(templateID string, totalItems int, custom []AreaDefinition) []AreaDefinition {
	id := NormalizeTemplateID(templateID)

	switch {
	case strings.Contains(id, "dia1") || strings.Contains(id, "sessao1") || strings.Contains(id, "day1"):
		return cloneAreas(session1Areas)
	case strings.Contains(id, "dia2") || strings.Contains(id, "sessao2") || strings.Contains(id, "day2"):
		return cloneAreas(session2Areas)
	case strings.Contains(id, "enem") || strings.Contains(id, "completo") || strings.Contains(id, "full"):
		return cloneAreas(fullExamAreas)
	}

	if len(custom) > 0 {
		return validAreas(custom)
	}

	switch totalItems {
	case FullExamItems:
		return cloneAreas(fullExamAreas)
	case SessionItems:
		return cloneAreas(session1Areas)
	default:
		return nil
	}
}

func cloneAreas(areas []AreaDefinition) []AreaDefinition {
	out := make([]AreaDefinition, len(areas))
	copy(out, areas)
	return out
}

// validAreas drops malformed ranges from an externally supplied
// configuration instead of failing the whole template.
func validAreas(areas []AreaDefinition) []AreaDefinition {
	out := make([]AreaDefinition, 0, len(areas))
	for _, a := range areas {
		if a.AreaCode == "" || a.StartItem < 1 || a.EndItem < a.StartItem {
			continue
		}
		out = append(out, a)
	}
	return out
}
