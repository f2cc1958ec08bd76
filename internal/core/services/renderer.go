package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

// Render replaces every {{{name}}} in text whose name is a key of params.
//
// Names are tried longest first so that overlapping names resolve to the
// longest match, and the text is scanned once: substituted values are never
// rescanned for further placeholders. Placeholders without a parameter are
// left as they are.
func Render(text string, params map[string]string) string {
	if len(params) == 0 {
		return text
	}

	names := make([]string, 0, len(params))
	for name := range params {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return text
	}

	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	quoted := make([]string, len(names))
	for i, name := range names {
		if value := params[name]; strings.HasPrefix(value, domain.PlaceholderOpen) ||
			strings.HasSuffix(value, domain.PlaceholderClose) {
			logger.Warn("template parameter %q value %q looks like a placeholder; rendering may be ambiguous", name, value)
		}
		quoted[i] = regexp.QuoteMeta(name)
	}

	pattern := regexp.MustCompile(regexp.QuoteMeta(domain.PlaceholderOpen) +
		"(?:" + strings.Join(quoted, "|") + ")" +
		regexp.QuoteMeta(domain.PlaceholderClose))

	open, closing := len(domain.PlaceholderOpen), len(domain.PlaceholderClose)
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		return params[match[open:len(match)-closing]]
	})
}
