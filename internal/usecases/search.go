package usecases

import (
	"strings"

	"infobot/internal/entities"
)

// MinQueryLength is the shortest accepted search query, in runes.
const MinQueryLength = 2

// Search returns every item whose text, data or extra note contains
// the query, case-insensitively. Matching any one field is enough;
// results keep snapshot order and are not ranked.
func Search(s entities.Snapshot, query string) []entities.Item {
	q := strings.ToLower(query)

	var results []entities.Item
	for _, item := range s {
		if strings.Contains(strings.ToLower(item.Text), q) {
			results = append(results, item)
		} else if strings.Contains(strings.ToLower(item.Data), q) {
			results = append(results, item)
		} else if strings.Contains(strings.ToLower(item.Extra), q) {
			results = append(results, item)
		}
	}
	return results
}
