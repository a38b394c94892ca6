// Package `cmdline` assembles the command lines of the ECMWF site tools from
// a header, named options, and positional arguments, and decomposes such
// command lines again.
//
// The tools use single-dash options: valued options are rendered as `-<name>
// <value>`, flags as `-<name>`.  The assembled line is split on whitespace
// before it is executed without a shell.  Tokens that contain whitespace
// would therefore be split incorrectly.  `Build()` rejects them instead of
// quoting them, because the tools themselves do not unquote.
package cmdline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var ErrWhitespace = errors.New("contains whitespace")
var ErrEmpty = errors.New("empty")
var ErrComma = errors.New("contains comma")

// `TokenError` tells which part of an invocation could not be rendered.
type TokenError struct {
	Role  string
	Token string
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Role, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// `Invocation` is a command line before rendering.  `Header` is the
// resolved program, like `ecp` or `ectrans`.
type Invocation struct {
	Header  string
	Args    []string
	Options Options
}

func checkToken(role, tok string) error {
	if tok == "" {
		return &TokenError{Role: role, Token: tok, Err: ErrEmpty}
	}
	if strings.IndexFunc(tok, unicode.IsSpace) >= 0 {
		return &TokenError{Role: role, Token: tok, Err: ErrWhitespace}
	}
	return nil
}

func (inv *Invocation) check() error {
	if err := checkToken("header", inv.Header); err != nil {
		return err
	}
	for _, v := range inv.Options.Valued {
		if err := checkToken("option name", v.Name); err != nil {
			return err
		}
		if len(v.Values) == 0 {
			return &TokenError{
				Role: "option value", Token: v.Name, Err: ErrEmpty,
			}
		}
		for _, val := range v.Values {
			if err := checkToken("option value", val); err != nil {
				return err
			}
		}
	}
	for _, f := range inv.Options.Flags {
		if err := checkToken("flag", f); err != nil {
			return err
		}
	}
	for _, a := range inv.Args {
		if err := checkToken("argument", a); err != nil {
			return err
		}
	}
	return nil
}

// `Build()` renders the invocation in the order header, valued options,
// flags, positional arguments.
func Build(inv Invocation) (string, error) {
	if err := inv.check(); err != nil {
		return "", err
	}

	parts := []string{inv.Header}
	for _, v := range inv.Options.Valued {
		parts = append(parts, fmt.Sprintf(
			"-%s %s", v.Name, strings.Join(v.Values, " "),
		))
	}
	for _, f := range inv.Options.Flags {
		parts = append(parts, fmt.Sprintf("-%s", f))
	}
	parts = append(parts, inv.Args...)
	return strings.Join(parts, " "), nil
}

// `Argv()` is `Build()` split on whitespace, which is the argument vector
// that is passed to exec.
func Argv(inv Invocation) ([]string, error) {
	line, err := Build(inv)
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}

// `EqualsArgv()` renders valued options in the introspection form
// `-<name>=<v1>,<v2>`, which `Parse()` reads back.  Values must not contain
// commas.
func EqualsArgv(inv Invocation) ([]string, error) {
	if err := inv.check(); err != nil {
		return nil, err
	}

	argv := []string{inv.Header}
	for _, v := range inv.Options.Valued {
		for _, val := range v.Values {
			if strings.Contains(val, ",") {
				return nil, &TokenError{
					Role: "option value", Token: val, Err: ErrComma,
				}
			}
		}
		argv = append(argv, fmt.Sprintf(
			"-%s=%s", v.Name, strings.Join(v.Values, ","),
		))
	}
	for _, f := range inv.Options.Flags {
		argv = append(argv, "-"+f)
	}
	return append(argv, inv.Args...), nil
}

// `Parsed` is the result of `Parse()`.
type Parsed struct {
	Program string
	// `Command` is the leading sub-command for tools with a command
	// interface.
	Command string
	Args    []string
	Options Options
}

var (
	rgxValued = regexp.MustCompile(`^-(.*)=(.*)$`)
	rgxFlag   = regexp.MustCompile(`^-(.+)$`)
)

// `Parse()` decomposes an argument vector.  `argv[0]` is the program.
// `-<name>=<value>` tokens are valued options with comma-separated values.
// The name extends to the last `=`, so `-a=b=c` sets `a=b` to `c`.
// Other `-<name>` tokens are flags.  Remaining tokens, including a single
// `-`, are positional.  If `commandInterface` is true, the first positional
// token is the sub-command.
func Parse(argv []string, commandInterface bool) *Parsed {
	p := &Parsed{}
	if len(argv) == 0 {
		return p
	}
	p.Program = argv[0]

	for _, arg := range argv[1:] {
		if m := rgxValued.FindStringSubmatch(arg); m != nil {
			p.Options.Set(m[1], strings.Split(m[2], ",")...)
		} else if m := rgxFlag.FindStringSubmatch(arg); m != nil {
			p.Options.AddFlag(m[1])
		} else {
			p.Args = append(p.Args, arg)
		}
	}

	if commandInterface && len(p.Args) > 0 {
		p.Command = p.Args[0]
		p.Args = p.Args[1:]
	}
	return p
}
