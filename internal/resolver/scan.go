package resolver

import (
	"regexp"
	"strings"
)

// Script dependencies are not parsed; their import specifiers are
// lifted straight from the text, so the graph walk stays format
// agnostic across module syntaxes.
var (
	staticImportRe  = regexp.MustCompile(`(?m)^\s*(?:import|export)\b[^'"\n;]*['"]([^'"\n]+)['"]`)
	dynamicImportRe = regexp.MustCompile(`\bimport\(\s*['"]([^'"\n]+)['"]\s*\)`)
	requireRe       = regexp.MustCompile(`\brequire\(\s*['"]([^'"\n]+)['"]\s*\)`)
)

// scanImports extracts the import specifiers of a script, deduplicated
// in first-appearance order.
func scanImports(text string) []string {
	seen := make(map[string]bool)
	var specs []string
	for _, re := range []*regexp.Regexp{staticImportRe, dynamicImportRe, requireRe} {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			spec := match[1]
			if !seen[spec] {
				seen[spec] = true
				specs = append(specs, spec)
			}
		}
	}
	return specs
}

// rewriteSpecifier replaces every quoted occurrence of a specifier,
// preserving the quote style around it.
func rewriteSpecifier(text, from, to string) string {
	text = strings.ReplaceAll(text, `"`+from+`"`, `"`+to+`"`)
	text = strings.ReplaceAll(text, `'`+from+`'`, `'`+to+`'`)
	return text
}
