package tui

import (
	"testing"

	"diggercli/digger/internal/dns/domain"

	"github.com/charmbracelet/huh"
	"github.com/google/go-cmp/cmp"
)

type optionPair struct {
	Key   string
	Value string
}

func optionsToPairs(options []huh.Option[string]) []optionPair {
	pairs := make([]optionPair, 0, len(options))
	for _, option := range options {
		pairs = append(pairs, optionPair{Key: option.Key, Value: option.Value})
	}
	return pairs
}

func TestValidateTarget_Forward(t *testing.T) {
	if err := validateTarget(modeForward, "example.com"); err != nil {
		t.Errorf("expected example.com to validate, got %v", err)
	}
	if err := validateTarget(modeForward, "  example.com  "); err != nil {
		t.Errorf("expected whitespace to be trimmed, got %v", err)
	}
	if err := validateTarget(modeForward, ""); err == nil {
		t.Error("expected empty domain to be rejected")
	}
	if err := validateTarget(modeForward, "exa mple.com"); err == nil {
		t.Error("expected domain with spaces to be rejected")
	}
}

func TestValidateTarget_Reverse(t *testing.T) {
	if err := validateTarget(modeReverse, "8.8.8.8"); err != nil {
		t.Errorf("expected IPv4 to validate, got %v", err)
	}
	if err := validateTarget(modeReverse, "2001:db8::1"); err != nil {
		t.Errorf("expected IPv6 to validate, got %v", err)
	}
	if err := validateTarget(modeReverse, "example.com"); err == nil {
		t.Error("expected hostname to be rejected in reverse mode")
	}
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "", wantErr: false},
		{value: "1.1.1.1", wantErr: false},
		{value: "2606:4700:4700::1111", wantErr: false},
		{value: "dns.example.com", wantErr: false},
		{value: "not a server", wantErr: true},
	}
	for _, tt := range tests {
		err := validateServer(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateServer(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestBuildSpec_Forward(t *testing.T) {
	base := domain.QuerySpec{Domain: "  example.com  ", Server: " 1.1.1.1 "}

	got := buildSpec(base, modeForward, "MX", []string{optDNSSEC, optShort})

	want := domain.QuerySpec{
		Domain: "example.com",
		Type:   domain.RecordTypeMX,
		Server: "1.1.1.1",
		DNSSEC: true,
		Short:  true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buildSpec mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSpec_ReverseForcesPTR(t *testing.T) {
	base := domain.QuerySpec{Domain: "8.8.8.8"}

	got := buildSpec(base, modeReverse, "MX", nil)

	if !got.Reverse {
		t.Error("expected Reverse to be set")
	}
	if got.Type != domain.RecordTypePTR {
		t.Errorf("expected type PTR, got %q", got.Type)
	}
}

func TestBuildSpec_ClearsUnselectedFlags(t *testing.T) {
	base := domain.QuerySpec{Domain: "example.com", DNSSEC: true, Trace: true}

	got := buildSpec(base, modeForward, "A", []string{optVerbose})

	if got.DNSSEC || got.Trace || got.Short {
		t.Errorf("expected unselected flags cleared, got %+v", got)
	}
	if !got.Verbose {
		t.Error("expected Verbose to be set")
	}
}

func TestCommandPreview(t *testing.T) {
	spec := domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeA}
	if got := commandPreview(spec); got != "dig example.com A" {
		t.Errorf("commandPreview = %q, want %q", got, "dig example.com A")
	}

	if got := commandPreview(domain.QuerySpec{}); got != "(incomplete query)" {
		t.Errorf("commandPreview for empty spec = %q", got)
	}
}

func TestCommandPreview_IncludesAdvisory(t *testing.T) {
	spec := domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeANY}
	got := commandPreview(spec)
	if got == "dig example.com ANY" {
		t.Error("expected ANY preview to carry the advisory note")
	}
}

func TestRecordTypeOptions(t *testing.T) {
	options := recordTypeOptions()
	if len(options) != len(domain.RecordTypes) {
		t.Fatalf("expected %d options, got %d", len(domain.RecordTypes), len(options))
	}

	pairs := optionsToPairs(options)
	if pairs[0].Value != "A" {
		t.Errorf("expected first option value A, got %q", pairs[0].Value)
	}
	if pairs[0].Key != "A - IPv4 address" {
		t.Errorf("unexpected first option label: %q", pairs[0].Key)
	}
}

func TestSelectedFlags_Roundtrip(t *testing.T) {
	spec := domain.QuerySpec{DNSSEC: true, Short: true}
	flags := selectedFlags(spec)

	if !hasFlag(flags, optDNSSEC) || !hasFlag(flags, optShort) {
		t.Errorf("expected dnssec and short selected, got %v", flags)
	}
	if hasFlag(flags, optTrace) || hasFlag(flags, optVerbose) {
		t.Errorf("expected trace and verbose unselected, got %v", flags)
	}
}

func TestSelectHeight(t *testing.T) {
	if got := selectHeight(3, 10); got != 3 {
		t.Errorf("expected selectHeight(3, 10) = 3, got %d", got)
	}
	if got := selectHeight(15, 10); got != 10 {
		t.Errorf("expected selectHeight(15, 10) = 10, got %d", got)
	}
}
