// Package format holds small text formatting helpers for outgoing messages.
package format

import (
	"fmt"
	"strings"
)

const (
	// MarkdownV1 denotes Telegram markdown version 1.
	MarkdownV1 = 1
	// MarkdownV2 denotes Telegram markdown version 2.
	MarkdownV2 = 2
)

const (
	mdV1Specials = "_*`["
	mdV2Specials = `_*[]()~` + "`" + `>#+-=|{}.!`
)

// EscapeMarkdown escapes special characters so text renders literally in
// MarkdownV1 or V2. For V2, entityType narrows the escape set: inside "pre"
// and "code" only backquote and backslash are special, inside "text_link"
// URLs only parentheses and backslash.
func EscapeMarkdown(text string, version int, entityType string) (string, error) {
	var specials string
	switch version {
	case MarkdownV1:
		specials = mdV1Specials
	case MarkdownV2:
		switch entityType {
		case "pre", "code":
			specials = "`" + `\`
		case "text_link", "custom_emoji":
			specials = `)\`
		default:
			specials = mdV2Specials
		}
	default:
		return "", fmt.Errorf("unsupported markdown version: %d", version)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
