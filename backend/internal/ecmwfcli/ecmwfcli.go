// Package `ecmwfcli` runs the ECMWF site tools `ecfs` and `ectrans`.  It
// resolves the command header, renders the command line with `cmdline`, and
// executes the split argument vector without a shell.
package ecmwfcli

import (
	"context"
	"fmt"

	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/internal/siteconfig"
	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
)

const (
	CommandECfs    = "ecfs"
	CommandECtrans = "ectrans"
)

type Logger interface {
	Debugw(msg string, kv ...interface{})
}

// `Interface` is the generic tool interface.  `Command` is the name of the
// tool family; with `CommandInterface`, a parsed command line starts with a
// sub-command.
type Interface struct {
	sys              shell.System
	cfg              siteconfig.Lookuper
	lg               Logger
	command          string
	commandInterface bool
}

func New(
	sys shell.System,
	cfg siteconfig.Lookuper,
	lg Logger,
	command string,
	commandInterface bool,
) *Interface {
	return &Interface{
		sys:              sys,
		cfg:              cfg,
		lg:               lg,
		command:          command,
		commandInterface: commandInterface,
	}
}

// `NewECfs()` returns the interface for ECFS, whose commands like `ecp` are
// passed as `Request.Command`.
func NewECfs(sys shell.System, cfg siteconfig.Lookuper, lg Logger) *Interface {
	return New(sys, cfg, lg, CommandECfs, true)
}

func NewECtrans(
	sys shell.System, cfg siteconfig.Lookuper, lg Logger,
) *Interface {
	return New(sys, cfg, lg, CommandECtrans, false)
}

func (i *Interface) System() shell.System { return i.sys }

func (i *Interface) Command() string { return i.command }

func (i *Interface) CommandInterface() bool { return i.commandInterface }

// `ActualCommand()` returns `override` if set, else the configured
// `ecmwf.<command>_command`, else the command name.
func (i *Interface) ActualCommand(override string) string {
	if override != "" {
		return override
	}
	if cmd, ok := siteconfig.CommandOverride(i.cfg, i.command); ok {
		return cmd
	}
	return i.command
}

// `Request` describes one tool invocation.  `Command` overrides the header.
// Failures are errors unless `NonFatal`.  Output is logged unless `Silent`.
type Request struct {
	Command  string
	Args     []string
	Options  cmdline.Options
	NonFatal bool
	Silent   bool
}

func (i *Interface) argv(req Request) ([]string, error) {
	inv := cmdline.Invocation{
		Header:  i.ActualCommand(req.Command),
		Args:    req.Args,
		Options: req.Options,
	}
	line, err := cmdline.Build(inv)
	if err != nil {
		return nil, fmt.Errorf("invalid %s command line: %w", i.command, err)
	}
	i.lg.Debugw("Launching command.", "cmdline", line)
	return cmdline.Argv(inv)
}

// `Call()` runs the request and reports success.  A non-fatal failure is
// `false, nil`.
func (i *Interface) Call(ctx context.Context, req Request) (bool, error) {
	argv, err := i.argv(req)
	if err != nil {
		return false, err
	}
	return i.sys.Call(ctx, argv, shell.SpawnOptions{
		Fatal:  !req.NonFatal,
		Silent: req.Silent,
	})
}

// `Capture()` runs the request and returns stdout.  Failures are always
// errors.
func (i *Interface) Capture(ctx context.Context, req Request) (string, error) {
	argv, err := i.argv(req)
	if err != nil {
		return "", err
	}
	return i.sys.Capture(ctx, argv, shell.SpawnOptions{
		Fatal:  !req.NonFatal,
		Silent: req.Silent,
	})
}

// `PrepareArguments()` decomposes a script command line into the parts of a
// `Request`.
func (i *Interface) PrepareArguments(argv []string) *cmdline.Parsed {
	return cmdline.Parse(argv, i.commandInterface)
}

// `RequestFromParsed()` converts a parsed command line back into a request.
func RequestFromParsed(p *cmdline.Parsed) Request {
	return Request{
		Command: p.Command,
		Args:    p.Args,
		Options: p.Options.Clone(),
	}
}
