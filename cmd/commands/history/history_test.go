package history

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"diggercli/digger/internal/database"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/history"
)

func setupDB(t *testing.T) {
	t.Helper()
	database.SetPath(filepath.Join(t.TempDir(), "digger.db"))
	t.Cleanup(database.ResetPath)
}

func seed(t *testing.T, entries ...*history.Entry) {
	t.Helper()
	repo, err := history.Open()
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer repo.Close()
	for _, e := range entries {
		if err := repo.Save(e); err != nil {
			t.Fatalf("failed to seed entry: %v", err)
		}
	}
}

func execHistory(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestHistoryList_Table(t *testing.T) {
	setupDB(t)
	base := time.Now()
	seed(t,
		&history.Entry{Timestamp: base.Add(-2 * time.Minute), Domain: "example.com", Type: domain.RecordTypeA, Server: "8.8.8.8", Status: domain.StatusSuccess, ElapsedMs: 12},
		&history.Entry{Timestamp: base.Add(-1 * time.Minute), Domain: "golang.org", Type: domain.RecordTypeMX, Status: domain.StatusNameNotFound},
	)

	stdout, stderr := execHistory(t, "list")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	for _, want := range []string{"DOMAIN", "example.com", "golang.org", "MX", "8.8.8.8", "OK", "No such domain", "12ms"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestHistoryList_NewestFirst(t *testing.T) {
	setupDB(t)
	base := time.Now()
	seed(t,
		&history.Entry{Timestamp: base.Add(-2 * time.Minute), Domain: "older.example", Type: domain.RecordTypeA, Status: domain.StatusSuccess},
		&history.Entry{Timestamp: base.Add(-1 * time.Minute), Domain: "newer.example", Type: domain.RecordTypeA, Status: domain.StatusSuccess},
	)

	stdout, _ := execHistory(t, "list")

	newer := strings.Index(stdout, "newer.example")
	older := strings.Index(stdout, "older.example")
	if newer == -1 || older == -1 || newer > older {
		t.Errorf("expected newest entry first:\n%s", stdout)
	}
}

func TestHistoryList_Empty(t *testing.T) {
	setupDB(t)

	stdout, _ := execHistory(t, "list")

	if !strings.Contains(stdout, "No history entries found.") {
		t.Errorf("expected empty message:\n%s", stdout)
	}
}

func TestHistoryList_Search(t *testing.T) {
	setupDB(t)
	base := time.Now()
	seed(t,
		&history.Entry{Timestamp: base.Add(-2 * time.Minute), Domain: "example.com", Type: domain.RecordTypeA, Status: domain.StatusSuccess},
		&history.Entry{Timestamp: base.Add(-1 * time.Minute), Domain: "golang.org", Type: domain.RecordTypeA, Status: domain.StatusSuccess},
	)

	stdout, _ := execHistory(t, "list", "--search", "golang")

	if !strings.Contains(stdout, "golang.org") {
		t.Errorf("expected matching entry:\n%s", stdout)
	}
	if strings.Contains(stdout, "example.com") {
		t.Errorf("expected non-matching entry filtered out:\n%s", stdout)
	}
}

func TestHistoryList_JSON(t *testing.T) {
	setupDB(t)
	seed(t, &history.Entry{Domain: "example.com", Type: domain.RecordTypeA, Status: domain.StatusSuccess, ElapsedMs: 9})

	stdout, _ := execHistory(t, "list", "-o", "json")

	for _, want := range []string{`"domain": "example.com"`, `"status": "success"`, `"elapsed_ms": 9`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in JSON output:\n%s", want, stdout)
		}
	}
}

func TestHistoryList_InvalidLimit(t *testing.T) {
	setupDB(t)

	_, stderr := execHistory(t, "list", "--limit", "0")

	if !strings.Contains(stderr, "limit must be greater than 0") {
		t.Errorf("expected limit error in stderr:\n%s", stderr)
	}
}

func TestHistoryStats_Empty(t *testing.T) {
	setupDB(t)

	stdout, _ := execHistory(t, "stats")

	if !strings.Contains(stdout, "No history recorded yet.") {
		t.Errorf("expected empty message:\n%s", stdout)
	}
}

func TestHistoryStats_Summary(t *testing.T) {
	setupDB(t)
	base := time.Now()
	seed(t,
		&history.Entry{Timestamp: base.Add(-3 * time.Minute), Domain: "example.com", Type: domain.RecordTypeA, Status: domain.StatusSuccess, ElapsedMs: 12},
		&history.Entry{Timestamp: base.Add(-2 * time.Minute), Domain: "golang.org", Type: domain.RecordTypeA, Status: domain.StatusSuccess, ElapsedMs: 20},
		&history.Entry{Timestamp: base.Add(-1 * time.Minute), Domain: "missing.example", Type: domain.RecordTypeMX, Status: domain.StatusNameNotFound},
	)

	stdout, _ := execHistory(t, "stats")

	for _, want := range []string{
		"Total queries:", "3",
		"Unique domains:",
		"Success rate:", "66.7%",
		"Most common type:", "A",
		"TYPE", "QUERIES",
		"Recent query latency",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestHistoryStats_JSON(t *testing.T) {
	setupDB(t)
	seed(t, &history.Entry{Domain: "example.com", Type: domain.RecordTypeA, Status: domain.StatusSuccess})

	stdout, _ := execHistory(t, "stats", "-o", "json")

	for _, want := range []string{`"total_queries": 1`, `"unique_domains": 1`, `"success_rate": 100`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in JSON output:\n%s", want, stdout)
		}
	}
}

func TestHistoryPrune(t *testing.T) {
	setupDB(t)
	seed(t,
		&history.Entry{Timestamp: time.Now().Add(-48 * time.Hour), Domain: "old.example", Type: domain.RecordTypeA, Status: domain.StatusSuccess},
		&history.Entry{Timestamp: time.Now().Add(-1 * time.Hour), Domain: "recent.example", Type: domain.RecordTypeA, Status: domain.StatusSuccess},
	)

	stdout, stderr := execHistory(t, "prune", "--older-than", "24h")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "Removed 1") {
		t.Errorf("expected removal count:\n%s", stdout)
	}

	listOut, _ := execHistory(t, "list")
	if strings.Contains(listOut, "old.example") {
		t.Errorf("expected pruned entry gone:\n%s", listOut)
	}
	if !strings.Contains(listOut, "recent.example") {
		t.Errorf("expected recent entry kept:\n%s", listOut)
	}
}

func TestHistoryPrune_DaySuffix(t *testing.T) {
	setupDB(t)
	seed(t, &history.Entry{Timestamp: time.Now().Add(-72 * time.Hour), Domain: "old.example", Type: domain.RecordTypeA, Status: domain.StatusSuccess})

	stdout, _ := execHistory(t, "prune", "--older-than", "2d")

	if !strings.Contains(stdout, "Removed 1") {
		t.Errorf("expected day-suffix duration to prune:\n%s", stdout)
	}
}

func TestHistoryPrune_RequiresFlag(t *testing.T) {
	setupDB(t)

	_, stderr := execHistory(t, "prune")

	if !strings.Contains(stderr, "--older-than is required") {
		t.Errorf("expected missing-flag error in stderr:\n%s", stderr)
	}
}

func TestHistoryPrune_InvalidDuration(t *testing.T) {
	setupDB(t)

	_, stderr := execHistory(t, "prune", "--older-than", "soon")

	if !strings.Contains(stderr, "invalid duration") {
		t.Errorf("expected duration error in stderr:\n%s", stderr)
	}
}

func TestHistoryClear_Force(t *testing.T) {
	setupDB(t)
	seed(t, &history.Entry{Domain: "example.com", Type: domain.RecordTypeA, Status: domain.StatusSuccess})

	stdout, _ := execHistory(t, "clear", "--force")

	if !strings.Contains(stdout, "History cleared.") {
		t.Errorf("expected confirmation message:\n%s", stdout)
	}

	listOut, _ := execHistory(t, "list")
	if !strings.Contains(listOut, "No history entries found.") {
		t.Errorf("expected empty history after clear:\n%s", listOut)
	}
}

func TestHistoryClear_NonInteractiveNeedsForce(t *testing.T) {
	setupDB(t)
	seed(t, &history.Entry{Domain: "example.com", Type: domain.RecordTypeA, Status: domain.StatusSuccess})

	// Test stdout is a buffer, not a terminal, so the prompt cannot run.
	_, stderr := execHistory(t, "clear")

	if !strings.Contains(stderr, "--force") {
		t.Errorf("expected force requirement in stderr:\n%s", stderr)
	}

	listOut, _ := execHistory(t, "list")
	if !strings.Contains(listOut, "example.com") {
		t.Errorf("expected history untouched:\n%s", listOut)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "-"},
		{500, "500ms"},
		{1500, "1.5s"},
		{90000, "1m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.ms); got != tc.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}
