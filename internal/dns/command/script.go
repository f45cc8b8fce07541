package command

import (
	"fmt"
	"strings"

	"diggercli/digger/internal/dns/domain"
)

// BatchEntry is one (domain, record type) pair in a batch export.
type BatchEntry struct {
	Domain string
	Type   domain.RecordType
}

// shebang opens every generated script.
const shebang = "#!/bin/bash"

// Script composes a runnable shell script: the shebang, then one generated
// invocation per entry in input order, optionally preceded by a comment
// line describing the query. The base spec contributes the shared server
// and flags; each entry supplies its own domain and type.
//
// Writing the file and marking it executable are the caller's job; this
// only produces the text.
func Script(entries []BatchEntry, base domain.QuerySpec, comments bool) (string, error) {
	var b strings.Builder
	b.WriteString(shebang + "\n")

	for _, entry := range entries {
		spec := base
		spec.Domain = entry.Domain
		spec.Type = entry.Type
		spec.Reverse = false

		inv, err := Generate(spec)
		if err != nil {
			return "", fmt.Errorf("command: batch entry %q: %w", entry.Domain, err)
		}

		if comments {
			fmt.Fprintf(&b, "# %s record for %s\n", spec.Type, spec.Domain)
		}
		b.WriteString(inv.Command + "\n")
	}

	return b.String(), nil
}
