package submission

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// renderFieldTable renders the submitted values as a simple two-column HTML
// table, sorted by field name so the output is stable.
func renderFieldTable(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(`<table border="0" cellpadding="6" cellspacing="0">`)
	for _, name := range names {
		fmt.Fprintf(&b, `<tr><td><strong>%s</strong></td><td>%s</td></tr>`,
			html.EscapeString(name), html.EscapeString(fields[name]))
	}
	b.WriteString(`</table>`)
	return b.String()
}

func renderFieldText(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s\n", name, fields[name])
	}
	return b.String()
}
