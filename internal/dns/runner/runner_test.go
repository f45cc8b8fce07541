package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/retry"
)

const answerFixture = `;; ->>HEADER<<- opcode: QUERY, status: NOERROR, id: 1
;; ANSWER SECTION:
example.com.    300    IN    A    93.184.216.34

;; Query time: 12 msec
;; SERVER: 8.8.8.8#53(8.8.8.8)`

// stubRunner returns a Runner whose exec seam is replaced by fn.
func stubRunner(fn runFunc) *Runner {
	r := New(time.Second)
	r.run = fn
	return r
}

// --- Query ---

func TestQuery_ParsesToolOutput(t *testing.T) {
	var gotName string
	var gotArgs []string
	r := stubRunner(func(_ context.Context, name string, args ...string) (string, int, error) {
		gotName = name
		gotArgs = args
		return answerFixture, 0, nil
	})

	result := r.Query(context.Background(), domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeA})

	if gotName != "dig" {
		t.Errorf("executed %q, want dig", gotName)
	}
	if result.Status != domain.StatusSuccess {
		t.Errorf("Status = %q, want %q", result.Status, domain.StatusSuccess)
	}
	if len(result.Answer) != 1 {
		t.Errorf("len(Answer) = %d, want 1", len(result.Answer))
	}
	if result.ElapsedMs != 12 {
		t.Errorf("ElapsedMs = %d, want marker value 12", result.ElapsedMs)
	}

	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "+comments") || !strings.Contains(joined, "+stats") {
		t.Errorf("argv %q missing structured output flags", joined)
	}
}

func TestQuery_ShortSkipsStructuredFlags(t *testing.T) {
	var gotArgs []string
	r := stubRunner(func(_ context.Context, _ string, args ...string) (string, int, error) {
		gotArgs = args
		return "93.184.216.34\n", 0, nil
	})

	r.Query(context.Background(), domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeA, Short: true})

	joined := strings.Join(gotArgs, " ")
	if strings.Contains(joined, "+comments") {
		t.Errorf("argv %q should not carry structured flags in short mode", joined)
	}
	if !strings.Contains(joined, "+short") {
		t.Errorf("argv %q missing +short", joined)
	}
}

func TestQuery_InvalidDomainSkipsExecution(t *testing.T) {
	executed := false
	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		executed = true
		return "", 0, nil
	})

	result := r.Query(context.Background(), domain.QuerySpec{Domain: "bad..domain", Type: domain.RecordTypeA})

	if executed {
		t.Error("tool should not run for an invalid domain")
	}
	if result.Status != domain.StatusInvalidDomain {
		t.Errorf("Status = %q, want %q", result.Status, domain.StatusInvalidDomain)
	}
}

func TestQuery_MissingBinary(t *testing.T) {
	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		return "", 127, errors.New(`exec: "dig": executable file not found in $PATH`)
	})

	result := r.Query(context.Background(), domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeA})

	if result.Status != domain.StatusToolUnavailable {
		t.Errorf("Status = %q, want %q", result.Status, domain.StatusToolUnavailable)
	}
	if !strings.Contains(result.Raw, "executable file not found") {
		t.Errorf("Raw = %q, want launch error text", result.Raw)
	}
}

func TestQuery_TimeoutOverridesOutput(t *testing.T) {
	r := stubRunner(func(ctx context.Context, _ string, _ ...string) (string, int, error) {
		<-ctx.Done()
		// Partial success-shaped text captured before the kill.
		return answerFixture, -1, errors.New("signal: killed")
	})
	r.timeout = 10 * time.Millisecond

	result := r.Query(context.Background(), domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeA})

	if result.Status != domain.StatusTimeout {
		t.Errorf("Status = %q, want %q despite success-shaped text", result.Status, domain.StatusTimeout)
	}
}

func TestQuery_NonZeroExitNoMarker(t *testing.T) {
	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		return ";; connection timed out; no servers could be reached\n", 9, errors.New("exit status 9")
	})

	result := r.Query(context.Background(), domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeA})

	if result.Status != domain.StatusNetworkError {
		t.Errorf("Status = %q, want %q", result.Status, domain.StatusNetworkError)
	}
}

// --- Available ---

func TestAvailable_ProbesOnce(t *testing.T) {
	probes := 0
	r := New(time.Second)
	r.look = func(string) (string, error) {
		probes++
		return "/usr/bin/dig", nil
	}

	if !r.Available() {
		t.Error("Available() = false, want true")
	}
	r.Available()
	if probes != 1 {
		t.Errorf("probe ran %d times, want 1", probes)
	}
}

func TestAvailable_Missing(t *testing.T) {
	r := New(time.Second)
	r.look = func(string) (string, error) {
		return "", errors.New("not found")
	}

	if r.Available() {
		t.Error("Available() = true, want false")
	}
}

// --- Whois ---

func TestWhois_ParsesResponse(t *testing.T) {
	r := stubRunner(func(_ context.Context, name string, args ...string) (string, int, error) {
		if name != "whois" {
			t.Errorf("executed %q, want whois", name)
		}
		if len(args) != 1 || args[0] != "example.com" {
			t.Errorf("args = %v, want [example.com]", args)
		}
		return "Registrar: IANA\nName Server: a.iana-servers.net\n", 0, nil
	})

	data, err := r.Whois(context.Background(), "EXAMPLE.COM.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Registrar != "IANA" {
		t.Errorf("Registrar = %q, want IANA", data.Registrar)
	}
	if !data.HasParsedData() {
		t.Error("HasParsedData() = false, want true")
	}
}

func TestWhois_RetriesTransientFailure(t *testing.T) {
	var attempts atomic.Int32
	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		if attempts.Add(1) == 1 {
			return "", 2, errors.New("exit status 2")
		}
		return "Registrar: IANA\n", 0, nil
	})
	r.whoisPolicy = retry.Policy{Attempts: 3}

	data, err := r.Whois(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
	if data.Registrar != "IANA" {
		t.Errorf("Registrar = %q, want IANA", data.Registrar)
	}
}

func TestWhois_MissingBinaryNotRetried(t *testing.T) {
	var attempts atomic.Int32
	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		attempts.Add(1)
		return "", 127, errors.New(`exec: "whois": executable file not found in $PATH`)
	})
	r.whoisPolicy = retry.Policy{Attempts: 3}

	_, err := r.Whois(context.Background(), "example.com")
	if !errors.Is(err, domain.ErrToolUnavailable) {
		t.Fatalf("expected ErrToolUnavailable, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("attempts = %d, want 1", attempts.Load())
	}
}

func TestWhois_InvalidDomain(t *testing.T) {
	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		t.Error("tool should not run for an invalid domain")
		return "", 0, nil
	})

	_, err := r.Whois(context.Background(), "bad..domain")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestWhois_KeepsOutputOnNonZeroExit(t *testing.T) {
	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		return "No match for domain \"X.COM\".\n", 1, errors.New("exit status 1")
	})

	data, err := r.Whois(context.Background(), "x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.HasParsedData() {
		t.Error("HasParsedData() = true for no-match response")
	}
	if !strings.Contains(data.Raw, "No match") {
		t.Errorf("Raw = %q, want the no-match text", data.Raw)
	}
}

// --- Batch ---

func TestRunBatch_OneResultPerSpec(t *testing.T) {
	r := stubRunner(func(_ context.Context, _ string, args ...string) (string, int, error) {
		return answerFixture, 0, nil
	})

	specs := []domain.QuerySpec{
		{Domain: "example.com", Type: domain.RecordTypeA},
		{Domain: "example.org", Type: domain.RecordTypeMX},
		{Domain: "bad..domain", Type: domain.RecordTypeA},
	}
	results := r.RunBatch(context.Background(), specs, 2)

	if len(results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(results), len(specs))
	}
	for i, res := range results {
		if res == nil {
			t.Fatalf("results[%d] is nil", i)
		}
	}
	if results[2].Status != domain.StatusInvalidDomain {
		t.Errorf("results[2].Status = %q, want %q", results[2].Status, domain.StatusInvalidDomain)
	}
	if results[0].Domain != "example.com" || results[1].Domain != "example.org" {
		t.Error("results out of input order")
	}
}

func TestRunBatch_RespectsParallelismBound(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0

	r := stubRunner(func(_ context.Context, _ string, _ ...string) (string, int, error) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return answerFixture, 0, nil
	})

	specs := make([]domain.QuerySpec, 8)
	for i := range specs {
		specs[i] = domain.QuerySpec{Domain: fmt.Sprintf("host%d.example.com", i), Type: domain.RecordTypeA}
	}
	r.RunBatch(context.Background(), specs, 2)

	if peak > 2 {
		t.Errorf("peak parallelism = %d, want at most 2", peak)
	}
}

func TestRunBatch_CanceledContextStillYieldsResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := stubRunner(func(ctx context.Context, _ string, _ ...string) (string, int, error) {
		return "", -1, ctx.Err()
	})

	specs := []domain.QuerySpec{
		{Domain: "example.com", Type: domain.RecordTypeA},
		{Domain: "example.org", Type: domain.RecordTypeA},
	}
	results := r.RunBatch(ctx, specs, 2)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, res := range results {
		if res == nil {
			t.Fatalf("results[%d] is nil", i)
		}
		if res.Status != domain.StatusTimeout {
			t.Errorf("results[%d].Status = %q, want %q", i, res.Status, domain.StatusTimeout)
		}
	}
}

// --- Compare ---

func TestCompare_OneResultPerServer(t *testing.T) {
	r := stubRunner(func(_ context.Context, _ string, args ...string) (string, int, error) {
		return answerFixture, 0, nil
	})

	results := r.Compare(context.Background(),
		domain.QuerySpec{Domain: "example.com", Type: domain.RecordTypeA},
		[]string{"1.1.1.1", "8.8.8.8"})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// The SERVER marker in the fixture overrides the spec server; both
	// results parse the same fixture here, so check the query domain only.
	for i, res := range results {
		if res.Domain != "example.com" {
			t.Errorf("results[%d].Domain = %q, want example.com", i, res.Domain)
		}
	}
}
