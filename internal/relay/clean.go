package relay

import "strings"

// boilerplateMarkers mark lines of quoted thread scaffolding inside expert
// replies. Matching is case-insensitive substring, mirroring what mail
// clients actually emit around a quoted question.
var boilerplateMarkers = []string{
	"original message",
	"מהמייל המקורי",
	"שאלה חדשה התקבלה",
	"מזהה שאלה:",
	"שואל:",
	"שאלה:",
	"נושא:",
	"------",
	"from:",
	"sent:",
	"to:",
	"subject:",
}

// CleanReply strips quoted lines, reply headers and known boilerplate from
// an expert reply, preserving the order of surviving lines. It is a strict
// filter: no line is ever rewritten, only kept or dropped.
func CleanReply(body string) string {
	var kept []string

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			continue
		}
		// "On <date>, <expert> wrote:" attribution lines
		if strings.HasPrefix(line, "On ") {
			continue
		}
		if containsMarker(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func containsMarker(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
