package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/ecmwfcli"
	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
)

func cmdParse(args map[string]interface{}, set *addons.Set) {
	argv := args["<argv>"].([]string)
	cli := ecmwfcli.New(
		set.System(), set.Config(), lg,
		argv[0], argBool(args, "--command-interface"),
	)
	if err := printParsed(os.Stdout, cli.PrepareArguments(argv)); err != nil {
		lg.Fatalw("Failed to render command line.", "err", err)
	}
}

func printParsed(w io.Writer, p *cmdline.Parsed) error {
	fmt.Fprintf(w, "program: %s\n", p.Program)
	if p.Command != "" {
		fmt.Fprintf(w, "command: %s\n", p.Command)
	}
	for _, a := range p.Args {
		fmt.Fprintf(w, "arg: %s\n", a)
	}
	for _, f := range p.Options.Flags {
		fmt.Fprintf(w, "flag: %s\n", f)
	}
	for _, v := range p.Options.Valued {
		fmt.Fprintf(w, "option: %s=%s\n", v.Name, strings.Join(v.Values, ","))
	}

	args := p.Args
	if p.Command != "" {
		args = append([]string{p.Command}, args...)
	}
	argv, err := cmdline.EqualsArgv(cmdline.Invocation{
		Header:  p.Program,
		Args:    args,
		Options: p.Options,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "argv: %s\n", strings.Join(argv, " "))
	return nil
}
