package tui

import (
	"errors"
	"net"
	"os"
	"strings"

	"diggercli/digger/internal/dns/command"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/util"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels the interactive flow.
var ErrAborted = errors.New("query aborted by user")

const (
	modeForward = "forward"
	modeReverse = "reverse"
)

// Values used by the options multi-select.
const (
	optDNSSEC  = "dnssec"
	optTrace   = "trace"
	optShort   = "short"
	optVerbose = "verbose"
)

// QueryForm runs an interactive wizard that collects a query spec. The
// prefill seeds defaults (typically from config); the returned spec is
// ready to hand to the runner.
func QueryForm(prefill domain.QuerySpec) (*domain.QuerySpec, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	spec := prefill
	if spec.Type == "" {
		spec.Type = domain.RecordTypeA
	}

	mode := modeForward
	if spec.Reverse {
		mode = modeReverse
	}
	typeValue := string(spec.Type)
	flags := selectedFlags(spec)

	modeField := huh.NewSelect[string]().
		Title("Lookup mode").
		Options(
			huh.NewOption("Forward (name to records)", modeForward),
			huh.NewOption("Reverse (IP to name)", modeReverse),
		).
		Value(&mode)

	targetField := huh.NewInput().
		TitleFunc(func() string {
			if mode == modeReverse {
				return "IP address"
			}
			return "Domain"
		}, &mode).
		Placeholder("example.com").
		Value(&spec.Domain).
		Validate(func(value string) error {
			return validateTarget(mode, value)
		})

	typeField := huh.NewSelect[string]().
		Title("Record type").
		Options(recordTypeOptions()...).
		Value(&typeValue).
		Height(selectHeight(len(domain.RecordTypes), 12))

	serverField := huh.NewInput().
		Title("Nameserver").
		Placeholder("system resolver").
		Value(&spec.Server).
		Validate(validateServer)

	flagsField := huh.NewMultiSelect[string]().
		Title("Options").
		Options(
			huh.NewOption("Validate DNSSEC (+dnssec)", optDNSSEC).Selected(spec.DNSSEC),
			huh.NewOption("Trace delegation path (+trace)", optTrace).Selected(spec.Trace),
			huh.NewOption("Short output (+short)", optShort).Selected(spec.Short),
			huh.NewOption("Answers only (+noall +answer)", optVerbose).Selected(spec.Verbose),
		).
		Value(&flags)

	confirm := true
	summaryNote := huh.NewNote().
		Title("Command").
		DescriptionFunc(func() string {
			return commandPreview(buildSpec(spec, mode, typeValue, flags))
		}, &spec)

	confirmField := huh.NewConfirm().
		Title("Run this query?").
		Value(&confirm)

	err := huh.NewForm(
		huh.NewGroup(modeField),
		huh.NewGroup(targetField),
		huh.NewGroup(typeField).WithHideFunc(func() bool { return mode == modeReverse }),
		huh.NewGroup(serverField, flagsField),
		huh.NewGroup(summaryNote, confirmField),
	).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrAborted
		}
		return nil, err
	}
	if !confirm {
		return nil, ErrAborted
	}

	final := buildSpec(spec, mode, typeValue, flags)
	return &final, nil
}

// buildSpec assembles the final spec from the wizard's working values.
// Reverse lookups always query PTR.
func buildSpec(base domain.QuerySpec, mode, typeValue string, flags []string) domain.QuerySpec {
	spec := base
	spec.Domain = strings.TrimSpace(spec.Domain)
	spec.Server = strings.TrimSpace(spec.Server)
	spec.Reverse = mode == modeReverse
	if spec.Reverse {
		spec.Type = domain.RecordTypePTR
	} else {
		spec.Type = domain.RecordTypeFromString(typeValue)
	}
	spec.DNSSEC = hasFlag(flags, optDNSSEC)
	spec.Trace = hasFlag(flags, optTrace)
	spec.Short = hasFlag(flags, optShort)
	spec.Verbose = hasFlag(flags, optVerbose)
	return spec
}

// commandPreview renders the dig invocation for the summary note.
func commandPreview(spec domain.QuerySpec) string {
	inv, err := command.Generate(spec)
	if err != nil {
		return "(incomplete query)"
	}
	if inv.Advisory != "" {
		return inv.Command + "\n\nNote: " + inv.Advisory
	}
	return inv.Command
}

func validateTarget(mode, value string) error {
	value = strings.TrimSpace(value)
	if mode == modeReverse {
		if net.ParseIP(value) == nil {
			return errors.New("enter a valid IPv4 or IPv6 address")
		}
		return nil
	}
	return util.ValidateDomain(value)
}

// validateServer accepts an empty value (system resolver), an IP address,
// or a hostname.
func validateServer(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if net.ParseIP(value) != nil {
		return nil
	}
	if err := util.ValidateDomain(value); err != nil {
		return errors.New("enter an IP address or hostname")
	}
	return nil
}

func recordTypeOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(domain.RecordTypes))
	for _, t := range domain.RecordTypes {
		options = append(options, huh.NewOption(string(t)+" - "+t.Description(), string(t)))
	}
	return options
}

func selectedFlags(spec domain.QuerySpec) []string {
	var flags []string
	if spec.DNSSEC {
		flags = append(flags, optDNSSEC)
	}
	if spec.Trace {
		flags = append(flags, optTrace)
	}
	if spec.Short {
		flags = append(flags, optShort)
	}
	if spec.Verbose {
		flags = append(flags, optVerbose)
	}
	return flags
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if f == name {
			return true
		}
	}
	return false
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}
