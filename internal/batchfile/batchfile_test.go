package batchfile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"diggercli/digger/internal/dns/domain"
)

func TestParse(t *testing.T) {
	input := `# production domains
example.com

example.org MX
example.net txt
`
	entries, err := Parse(strings.NewReader(input), "domains.txt", domain.RecordTypeA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{
		{Domain: "example.com", Type: domain.RecordTypeA},
		{Domain: "example.org", Type: domain.RecordTypeMX},
		{Domain: "example.net", Type: domain.RecordTypeTXT},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UnknownType(t *testing.T) {
	input := "example.com\nexample.org BOGUS\n"

	_, err := Parse(strings.NewReader(input), "domains.txt", domain.RecordTypeA)
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !strings.Contains(err.Error(), "domains.txt:2") {
		t.Errorf("expected file and line in error, got %q", err)
	}
	if !strings.Contains(err.Error(), "BOGUS") {
		t.Errorf("expected offending type in error, got %q", err)
	}
}

func TestParse_TooManyFields(t *testing.T) {
	input := "example.com A extra\n"

	_, err := Parse(strings.NewReader(input), "domains.txt", domain.RecordTypeA)
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "domains.txt:1") {
		t.Errorf("expected file and line in error, got %q", err)
	}
}

func TestParse_Empty(t *testing.T) {
	entries, err := Parse(strings.NewReader("# only comments\n\n"), "domains.txt", domain.RecordTypeA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
}
