package service

import (
	"strings"

	"github.com/sandalio7/Serena/internal/classifier"
	"github.com/sandalio7/Serena/internal/domain"
	"github.com/sandalio7/Serena/internal/taxonomy"
)

// SkippedLeaf one classification leaf that could not be persisted, with the
// reason. Skips are part of the batch outcome, not just log lines.
type SkippedLeaf struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Reason      string `json:"reason"`
}

// NormalizeOutcome result of mapping one classification onto the taxonomy
type NormalizeOutcome struct {
	Values  []domain.ClassifiedValue
	Skipped []SkippedLeaf
}

// Normalize maps a classification result onto the taxonomy store, producing
// the classified values to persist for one message. Best-effort per leaf: an
// unmatched category or subcategory is skipped and recorded, never fatal.
// Message ids are assigned later, at persist time.
func Normalize(result classifier.Result, store *taxonomy.Store) NormalizeOutcome {
	var out NormalizeOutcome

	for _, cat := range result.Categories {
		if !cat.Detected {
			continue
		}
		if _, ok := store.Category(cat.Name); !ok {
			out.Skipped = append(out.Skipped, SkippedLeaf{
				Category: cat.Name,
				Reason:   "unknown category",
			})
			continue
		}

		for _, sub := range cat.Subcategories {
			if !sub.Detected {
				continue
			}
			if strings.TrimSpace(sub.Value) == "" {
				continue
			}
			stored, ok := store.Subcategory(cat.Name, sub.Name)
			if !ok {
				out.Skipped = append(out.Skipped, SkippedLeaf{
					Category:    cat.Name,
					Subcategory: sub.Name,
					Reason:      "unknown subcategory",
				})
				continue
			}

			confidence := sub.Confidence
			if confidence < 0 {
				confidence = 0
			} else if confidence > 1 {
				confidence = 1
			}

			out.Values = append(out.Values, domain.ClassifiedValue{
				SubcategoryID: stored.ID,
				Value:         sub.Value,
				Confidence:    confidence,
			})
		}
	}

	return out
}
