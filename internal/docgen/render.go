package docgen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholder matches $$, $name and ${name}. Names follow identifier rules.
var placeholder = regexp.MustCompile(`\$(?:(\$)|([A-Za-z_][A-Za-z0-9_]*)|\{([A-Za-z_][A-Za-z0-9_]*)\})`)

// Result is the outcome of rendering a template.
type Result struct {
	// Text is the rendered output. Unresolved placeholders are kept as
	// written.
	Text string

	// Missing lists unresolved placeholder names, sorted and unique.
	Missing []string
}

// Complete reports whether every placeholder was substituted.
func (r Result) Complete() bool {
	return len(r.Missing) == 0
}

// Err returns an error naming the missing variables, or nil.
func (r Result) Err() error {
	if r.Complete() {
		return nil
	}
	return fmt.Errorf("missing template variables: %s", strings.Join(r.Missing, ", "))
}

// Render substitutes vars into tmpl. `$$` renders as a literal `$`.
func Render(tmpl string, vars map[string]string) Result {
	missing := make(map[string]bool)

	text := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		if sub[1] != "" {
			return "$"
		}

		name := sub[2]
		if name == "" {
			name = sub[3]
		}
		if v, ok := vars[name]; ok {
			return v
		}
		missing[name] = true
		return m
	})

	res := Result{Text: text}
	for name := range missing {
		res.Missing = append(res.Missing, name)
	}
	sort.Strings(res.Missing)

	return res
}
