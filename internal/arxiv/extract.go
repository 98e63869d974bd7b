package arxiv

import "regexp"

// linkPattern recognizes abstract-page and PDF links. The identifier is
// either new-style ("2101.00001") or old-style ("hep-th/9901001"), with an
// optional version suffix. A trailing ".pdf" is never part of the id, which
// is what makes the two URL forms normalize to the same identifier.
var linkPattern = regexp.MustCompile(
	`(?i)arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?|[a-z-]+(?:\.[a-z]{2})?/\d{7}(?:v\d+)?)`)

// ExtractID returns the first arXiv identifier referenced by text, looking
// through Slack's <...> link markup. The second return value is false when
// no recognizable link is present; that is the common case and not an error.
// Malformed or partial URLs simply yield no match.
func ExtractID(text string) (string, bool) {
	m := linkPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
