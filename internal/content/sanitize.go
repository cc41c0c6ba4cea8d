package content

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	markupRe = regexp.MustCompile(`<(?:[a-zA-Z][a-zA-Z0-9-]*|/[a-zA-Z]|!--)[^>]*>`)
	blockRe  = regexp.MustCompile(`(?i)</?(?:p|div|br|li|h[1-6]|tr|section|article)\b[^>]*>`)
)

func policy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Sanitize strips HTML markup from pasted text. Text without markup is
// returned unchanged so characters like '<' or '&' in prose survive.
func Sanitize(raw string) string {
	if !markupRe.MatchString(raw) {
		return raw
	}
	// Keep block boundaries as line breaks before the policy drops the tags.
	withBreaks := blockRe.ReplaceAllStringFunc(raw, func(tag string) string { return "\n" + tag })
	clean := policy().Sanitize(withBreaks)
	return strings.TrimSpace(html.UnescapeString(clean))
}
