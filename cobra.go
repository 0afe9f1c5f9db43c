package cline

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CobraParser adapts a cobra command's flags and usage text to Parser. The
// command is never executed; only its flag set and help are used.
type CobraParser struct {
	cmd         *cobra.Command
	positionals []string
}

// NewCobraParser returns a Parser over cmd. Positional tokens are bound, in
// order, to the names in positionals.
func NewCobraParser(cmd *cobra.Command, positionals ...string) *CobraParser {
	// Usage only lists the command line of runnable commands.
	if !cmd.Runnable() {
		cmd.Run = func(*cobra.Command, []string) {}
	}
	cmd.InitDefaultHelpFlag()
	cmd.FParseErrWhitelist.UnknownFlags = true
	return &CobraParser{cmd: cmd, positionals: positionals}
}

// Command returns the wrapped command.
func (p *CobraParser) Command() *cobra.Command {
	return p.cmd
}

// Parse implements Parser. Tokens that parse as negative numbers are
// positional, unless a shorthand flag claims their first digit.
func (p *CobraParser) Parse(tokens []string) (map[string]any, []string, error) {
	flags := p.cmd.Flags()
	flags.ParseErrorsWhitelist.UnknownFlags = true

	// pflag drops unknown flags silently, so find them before parsing.
	options, positionals, unknown := splitTokens(flags, tokens)

	args := append(options, "--")
	if err := flags.Parse(append(args, positionals...)); err != nil {
		return nil, nil, err
	}

	known := make(map[string]any)
	flags.VisitAll(func(f *pflag.Flag) {
		switch {
		case f.Value.Type() == "bool":
			known[f.Name] = f.Value.String() == "true"
		case f.Changed || f.DefValue != "":
			known[f.Name] = f.Value.String()
		default:
			known[f.Name] = nil
		}
	})

	for i, arg := range flags.Args() {
		if i < len(p.positionals) {
			known[p.positionals[i]] = arg
			continue
		}
		unknown = append(unknown, arg)
	}
	for _, name := range p.positionals {
		if _, ok := known[name]; !ok {
			known[name] = nil
		}
	}
	return known, unknown, nil
}

// splitTokens separates flags and their values from positional tokens, and
// reports the flags the set does not define.
func splitTokens(flags *pflag.FlagSet, tokens []string) (options, positionals, unknown []string) {
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if token == "--" {
			positionals = append(positionals, tokens[i+1:]...)
			break
		}
		if len(token) < 2 || token[0] != '-' || isNegativeNumber(flags, token) {
			positionals = append(positionals, token)
			continue
		}

		options = append(options, token)
		defined, needsValue := lookupFlag(flags, token)
		if !defined {
			unknown = append(unknown, token)
			continue
		}
		if needsValue && i+1 < len(tokens) {
			i++
			options = append(options, tokens[i])
		}
	}
	return options, positionals, unknown
}

// lookupFlag reports whether token names defined flags and whether the next
// token is the value of the last one.
func lookupFlag(flags *pflag.FlagSet, token string) (defined, needsValue bool) {
	name, _, hasValue := strings.Cut(strings.TrimLeft(token, "-"), "=")
	if name == "" {
		return false, false
	}
	if strings.HasPrefix(token, "--") {
		f := flags.Lookup(name)
		if f == nil {
			return false, false
		}
		return true, f.NoOptDefVal == "" && !hasValue
	}

	// Shorthand flags may be grouped, as in -vx or -vgvalue.
	for j := 0; j < len(name); j++ {
		f := flags.ShorthandLookup(name[j : j+1])
		if f == nil {
			return false, false
		}
		if f.NoOptDefVal == "" {
			return true, j == len(name)-1 && !hasValue
		}
	}
	return true, false
}

func isNegativeNumber(flags *pflag.FlagSet, token string) bool {
	if c := token[1]; c != '.' && (c < '0' || c > '9') {
		return false
	}
	if _, err := strconv.ParseFloat(token, 64); err != nil {
		return false
	}
	return flags.ShorthandLookup(token[1:2]) == nil
}

// Help implements Parser. It returns the command's description followed by
// its usage.
func (p *CobraParser) Help() string {
	var b strings.Builder
	if desc := strings.TrimSpace(cmp.Or(p.cmd.Long, p.cmd.Short)); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	b.WriteString(p.cmd.UsageString())
	return b.String()
}
