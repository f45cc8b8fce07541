package domain

import "testing"

func TestQueryResult_TotalRecords(t *testing.T) {
	r := &QueryResult{
		Answer: []Record{
			{Name: "example.com", Type: RecordTypeA, TTL: 300, Value: "93.184.216.34", Priority: NoPriority},
		},
		Authority: []Record{
			{Name: "example.com", Type: RecordTypeNS, TTL: 86400, Value: "a.iana-servers.net", Priority: NoPriority},
			{Name: "example.com", Type: RecordTypeNS, TTL: 86400, Value: "b.iana-servers.net", Priority: NoPriority},
		},
		Additional: []Record{
			{Name: "a.iana-servers.net", Type: RecordTypeA, TTL: 86400, Value: "199.43.135.53", Priority: NoPriority},
		},
	}
	if got := r.TotalRecords(); got != 4 {
		t.Errorf("TotalRecords() = %d, want 4", got)
	}
}

func TestQueryResult_HasAnswer(t *testing.T) {
	empty := &QueryResult{Status: StatusSuccess}
	if empty.HasAnswer() {
		t.Error("HasAnswer() = true for empty answer section, want false")
	}

	withAnswer := &QueryResult{
		Answer: []Record{{Name: "example.com", Type: RecordTypeA, TTL: 300, Value: "93.184.216.34", Priority: NoPriority}},
	}
	if !withAnswer.HasAnswer() {
		t.Error("HasAnswer() = false with one answer record, want true")
	}
}

func TestQueryResult_IsSuccessful(t *testing.T) {
	cases := []struct {
		status QueryStatus
		want   bool
	}{
		{StatusSuccess, true},
		{StatusNameNotFound, false},
		{StatusServerFailure, false},
		{StatusRefused, false},
		{StatusTimeout, false},
		{StatusNetworkError, false},
		{StatusInvalidDomain, false},
		{StatusToolUnavailable, false},
	}
	for _, c := range cases {
		r := &QueryResult{Status: c.status}
		if got := r.IsSuccessful(); got != c.want {
			t.Errorf("IsSuccessful() with status %q = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestRecord_HasPriority(t *testing.T) {
	mx := Record{Name: "example.com", Type: RecordTypeMX, TTL: 3600, Value: "mail.example.com", Priority: 10}
	if !mx.HasPriority() {
		t.Error("HasPriority() = false for MX with priority 10, want true")
	}

	a := Record{Name: "example.com", Type: RecordTypeA, TTL: 300, Value: "93.184.216.34", Priority: NoPriority}
	if a.HasPriority() {
		t.Error("HasPriority() = true for record with NoPriority, want false")
	}

	zero := Record{Name: "example.com", Type: RecordTypeMX, TTL: 3600, Value: "mail.example.com", Priority: 0}
	if !zero.HasPriority() {
		t.Error("HasPriority() = false for MX with priority 0, want true")
	}
}

func TestRecord_DisplayValue(t *testing.T) {
	mx := Record{Type: RecordTypeMX, Value: "mail.example.com", Priority: 10}
	if got := mx.DisplayValue(); got != "10 mail.example.com" {
		t.Errorf("DisplayValue() = %q, want %q", got, "10 mail.example.com")
	}

	a := Record{Type: RecordTypeA, Value: "93.184.216.34", Priority: NoPriority}
	if got := a.DisplayValue(); got != "93.184.216.34" {
		t.Errorf("DisplayValue() = %q, want %q", got, "93.184.216.34")
	}
}

func TestWhoisData_HasParsedData(t *testing.T) {
	cases := []struct {
		name string
		data WhoisData
		want bool
	}{
		{"empty", WhoisData{Domain: "example.com", Raw: "No match for domain"}, false},
		{"registrar only", WhoisData{Registrar: "IANA"}, true},
		{"created only", WhoisData{CreatedDate: "1995-08-14"}, true},
		{"nameservers only", WhoisData{NameServers: []string{"a.iana-servers.net"}}, true},
		{"status only", WhoisData{Status: []string{"clientTransferProhibited"}}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.data.HasParsedData(); got != c.want {
				t.Errorf("HasParsedData() = %v, want %v", got, c.want)
			}
		})
	}
}
