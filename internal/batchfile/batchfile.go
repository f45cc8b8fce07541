// Package batchfile parses domain list files for batch operations. Each
// line holds one domain, optionally followed by a record type. Blank lines
// and # comments are skipped.
package batchfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"diggercli/digger/internal/dns/domain"
)

// Entry is one parsed line.
type Entry struct {
	Domain string
	Type   domain.RecordType
}

// Parse reads entries from r. Lines without a type get defaultType; name
// labels error messages, usually the file path.
func Parse(r io.Reader, name string, defaultType domain.RecordType) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			entries = append(entries, Entry{Domain: fields[0], Type: defaultType})
		case 2:
			typ, err := domain.ParseRecordType(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: unknown record type %q", name, lineNo, fields[1])
			}
			entries = append(entries, Entry{Domain: fields[0], Type: typ})
		default:
			return nil, fmt.Errorf("%s:%d: expected 'domain [type]', got %q", name, lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return entries, nil
}

// ReadFile parses the file at path.
func ReadFile(path string, defaultType domain.RecordType) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	return Parse(f, path, defaultType)
}
