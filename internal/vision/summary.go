package vision

import (
	"fmt"
	"strings"

	"github.com/huracan-ai/huracan/internal/domain"
)

// Fixed lexical heuristic, not a model call. Deterministic so the summary
// stage stays testable.
var damageKeywords = []string{
	"damage", "broken", "crack", "leak", "flood", "water", "debris",
	"fallen", "collapsed", "destroyed", "torn", "missing", "exposed",
}

var structuralKeywords = []string{
	"roof", "wall", "window", "door", "foundation", "beam", "column",
	"pipe", "electrical", "wiring", "insulation",
}

// DamageSummary scans tag names and caption text for damage-indicator and
// structural-element keywords and renders a short natural-language summary
// listing up to three matches of each category.
func DamageSummary(analysis domain.ImageAnalysis) string {
	var damageIndicators []string
	var structuralElements []string

	for _, tag := range analysis.Tags {
		if containsAny(tag.Name, damageKeywords) {
			damageIndicators = append(damageIndicators, tag.Name)
		}
		if containsAny(tag.Name, structuralKeywords) {
			structuralElements = append(structuralElements, tag.Name)
		}
	}

	for _, caption := range analysis.Captions {
		if containsAny(caption.Text, damageKeywords) {
			damageIndicators = append(damageIndicators, caption.Text)
		}
	}

	var b strings.Builder
	b.WriteString("Image analysis completed. ")

	if len(damageIndicators) > 0 {
		fmt.Fprintf(&b, "Potential damage indicators detected: %s. ", strings.Join(firstN(damageIndicators, 3), ", "))
	}
	if len(structuralElements) > 0 {
		fmt.Fprintf(&b, "Structural elements identified: %s. ", strings.Join(firstN(structuralElements, 3), ", "))
	}
	if len(damageIndicators) == 0 && len(structuralElements) == 0 {
		b.WriteString("No obvious damage indicators detected in the image.")
	}

	return b.String()
}

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
