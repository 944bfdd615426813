package ticket

import "fmt"

// Style selects where a rendered link is placed relative to the message text.
type Style string

const (
	// StyleInline appends the link in parentheses on the same line.
	StyleInline Style = "inline"
	// StyleNewline places the link on its own indented line.
	StyleNewline Style = "newline"
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleInline, StyleNewline:
		return Style(s), nil
	}
	return "", fmt.Errorf("invalid link style %q: must be inline or newline", s)
}

// FormatLink renders the markdown fragment appended to a commit message:
//
//	inline:  " ([QUIKS-674](https://example.atlassian.net/browse/QUIKS-674))"
//	newline: "\n  [QUIKS-674](https://example.atlassian.net/browse/QUIKS-674)"
//
// baseURL is used verbatim; callers supply it without a trailing slash.
func FormatLink(id, baseURL string, style Style) string {
	link := fmt.Sprintf("[%s](%s/browse/%s)", id, baseURL, id)
	if style == StyleNewline {
		return "\n  " + link
	}
	return " (" + link + ")"
}

// BrowseURL returns the plain tracker URL for an identifier.
func BrowseURL(id, baseURL string) string {
	return fmt.Sprintf("%s/browse/%s", baseURL, id)
}
