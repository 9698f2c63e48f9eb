package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseResponse decodes the raw model response into a Result. Models often
// wrap the JSON object in a fenced block despite the instructions, so any
// fence is stripped first. A decode failure is a recoverable error: the
// caller moves on to the next candidate model.
func ParseResponse(raw string) (Result, error) {
	cleaned := stripFences(raw)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return Result{}, fmt.Errorf("malformed classification response: %w", err)
	}
	if result.Categories == nil {
		return Result{}, fmt.Errorf("classification response missing categorias")
	}

	// Confidence must end up in [0,1] regardless of what the service sent.
	for i := range result.Categories {
		for j := range result.Categories[i].Subcategories {
			c := result.Categories[i].Subcategories[j].Confidence
			if c < 0 {
				c = 0
			} else if c > 1 {
				c = 1
			}
			result.Categories[i].Subcategories[j].Confidence = c
		}
	}
	return result, nil
}

func stripFences(raw string) string {
	if strings.Contains(raw, "```json") {
		parts := strings.SplitN(raw, "```json", 2)
		return strings.TrimSpace(strings.SplitN(parts[1], "```", 2)[0])
	}
	if strings.Contains(raw, "```") {
		parts := strings.SplitN(raw, "```", 3)
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(raw)
}
