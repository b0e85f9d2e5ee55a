package pulse

import "strings"

// DecideTitle chooses the conversation title after a completed turn. The
// model's suggestion is adopted only when it is a genuine title rather than an
// echo of the opening message; otherwise the current title stands.
func DecideTitle(suggested, firstUser, current string) string {
	cleaned := cleanTitle(suggested)
	if cleaned == "" {
		return current
	}
	if firstUser == "" {
		return cleaned
	}
	t := strings.ToLower(strings.TrimSpace(cleaned))
	m := strings.ToLower(strings.TrimSpace(firstUser))
	if t == m || strings.Contains(m, t) || strings.Contains(t, m) {
		return current
	}
	return cleaned
}

// cleanTitle strips whitespace, one layer of wrapping quotes and any terminal
// punctuation the model tends to tack on.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	pairs := [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}, {"‘", "’"}}
	for _, p := range pairs {
		open, close := p[0], p[1]
		if len(s) > len(open)+len(close) && strings.HasPrefix(s, open) && strings.HasSuffix(s, close) {
			s = s[len(open) : len(s)-len(close)]
			break
		}
	}
	s = strings.TrimRight(s, ".!?…")
	return strings.TrimSpace(s)
}

// FirstUserContent returns the content of the earliest user message in the
// transcript, or "" when there is none.
func FirstUserContent(messages []Message) string {
	for _, m := range messages {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}
