// Package command renders query specs into the command-line invocations that
// would produce equivalent results: native dig syntax, a curl DNS-over-HTTPS
// equivalent, and batch scripts composed of either. Generation is pure
// string construction; nothing here executes anything.
package command

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"diggercli/digger/internal/dns/domain"
)

// Invocation is one rendered command. Command may span multiple lines in
// the curl dialect (backslash continuations). Advisory carries caveats for
// the caller to surface; it is never embedded in the command text.
type Invocation struct {
	Command  string
	Advisory string
}

// anyAdvisory is attached to ANY-type queries.
const anyAdvisory = "ANY queries are deprecated and commonly filtered by resolvers; expect incomplete results"

// plainDomain matches domains that can appear unquoted in a shell command.
// Anything else (service labels like _dmarc.example.com) gets wrapped in
// double quotes.
var plainDomain = regexp.MustCompile(`^[A-Za-z0-9.\-]+$`)

// Args renders the native-dialect argv for a spec, one token per element
// and no shell quoting. The runner executes exactly these tokens; Generate
// joins them (with quoting) into the displayed command. Keeping both
// derived from one renderer is what makes the displayed command reproduce
// the executed one.
//
// Token order is fixed: dig, @server, positional arguments, then +dnssec,
// +trace, +short, and +noall +answer for verbose specs that carry no other
// output-shaping flag.
func Args(spec domain.QuerySpec) ([]string, error) {
	if err := validate(spec); err != nil {
		return nil, err
	}

	args := []string{"dig"}

	if spec.Server != "" {
		args = append(args, "@"+spec.Server)
	}

	if spec.Reverse {
		args = append(args, "-x", spec.Domain)
	} else {
		args = append(args, spec.Domain, spec.Type.String())
	}

	if spec.DNSSEC {
		args = append(args, "+dnssec")
	}
	if spec.Trace {
		args = append(args, "+trace")
	}
	if spec.Short {
		args = append(args, "+short")
	}
	if spec.Verbose && !spec.DNSSEC && !spec.Trace && !spec.Short {
		args = append(args, "+noall", "+answer")
	}

	return args, nil
}

// Generate renders the native-dialect command string for a spec.
func Generate(spec domain.QuerySpec) (Invocation, error) {
	args, err := Args(spec)
	if err != nil {
		return Invocation{}, err
	}

	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteToken(arg)
	}

	return Invocation{
		Command:  strings.Join(quoted, " "),
		Advisory: advisoryFor(spec),
	}, nil
}

// validate rejects the specs that cannot safely be rendered: a reverse
// lookup without an IP literal, a record type outside the supported set, or
// a missing domain. This is the one fail-fast path; everything downstream
// degrades gracefully instead.
func validate(spec domain.QuerySpec) error {
	if strings.TrimSpace(spec.Domain) == "" {
		return fmt.Errorf("command: empty domain: %w", domain.ErrInvalidSpec)
	}
	if spec.Reverse {
		if net.ParseIP(spec.Domain) == nil {
			return fmt.Errorf("command: reverse lookup needs an IP address, got %q: %w", spec.Domain, domain.ErrInvalidSpec)
		}
		return nil
	}
	if !spec.Type.IsValid() {
		return fmt.Errorf("command: unsupported record type %q: %w", spec.Type, domain.ErrInvalidSpec)
	}
	return nil
}

// quoteToken wraps domain-like tokens containing shell-significant
// characters (underscores in service labels) in double quotes. Flag tokens
// and addresses pass through untouched.
func quoteToken(tok string) string {
	if tok == "" || tok[0] == '+' || tok[0] == '-' || tok[0] == '@' {
		return tok
	}
	if plainDomain.MatchString(tok) {
		return tok
	}
	return `"` + tok + `"`
}

func advisoryFor(spec domain.QuerySpec) string {
	if !spec.Reverse && spec.Type == domain.RecordTypeANY {
		return anyAdvisory
	}
	return ""
}
