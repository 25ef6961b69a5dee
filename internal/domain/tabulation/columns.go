package tabulation

import "strings"

const (
	FieldRole     = "role"
	FieldBonus    = "bonus"
	FieldLogCount = "logcount"

	// FieldFile marks problems with the file as a whole rather than a column.
	FieldFile = "file"
)

// columnSynonyms maps a normalised header to the field it feeds. Headers are
// matched whole; anything not listed here is ignored.
var columnSynonyms = map[string]string{
	"role":        FieldRole,
	"roles":       FieldRole,
	"bonus":       FieldBonus,
	"bonuses":     FieldBonus,
	"bonusamount": FieldBonus,
	"logcount":    FieldLogCount,
	"logcounts":   FieldLogCount,
	"logs":        FieldLogCount,
}

var requiredFields = []string{FieldRole, FieldBonus}

func normalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	header = strings.TrimPrefix(header, "\ufeff")
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(header)
}

// resolveColumns returns the column index of every field present in headers.
func resolveColumns(headers []string) (map[string]int, error) {
	index := map[string]int{}
	for i, header := range headers {
		field, ok := columnSynonyms[normalizeHeader(header)]
		if !ok {
			continue
		}
		if _, dup := index[field]; dup {
			return nil, &FormatError{Field: field, Reason: "more than one column matches"}
		}
		index[field] = i
	}
	for _, field := range requiredFields {
		if _, ok := index[field]; !ok {
			return nil, &FormatError{Field: field, Reason: "required column is missing"}
		}
	}
	return index, nil
}
