// vim: sw=8

// Command `ecmwfx` runs the ECMWF site integrations from the command line:
// ECFS and ectrans transfers, archive access by tube, SMS child commands,
// and command line introspection.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/joho/godotenv"
	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/internal/siteconfig"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/nogproject/ecmwf/backend/pkg/zap"
)

// `xVersion` and `xBuild` are injected by the `Makefile`.
var (
	xVersion string
	xBuild   string
	version  = fmt.Sprintf("ecmwfx-%s+%s", xVersion, xBuild)
)

// `qqBackticks()` translates double single quote to backtick.
func qqBackticks(s string) string {
	return strings.Replace(s, "''", "`", -1)
}

var usage = qqBackticks(strings.TrimSpace(`
Usage:
  ecmwfx [options] ecfs (test|ls|mkdir|rm) [--flag=<f>...] <item>
  ecmwfx [options] ecfs chmod [--flag=<f>...] <mode> <item>
  ecmwfx [options] ecfs (cp|get|put) [--zstd] [--flag=<f>...] <source> <target>
  ecmwfx [options] ectrans (put|get) [--zstd] [--sync] [--gateway=<gw>] [--remote=<r>] [--storage=<s>] <source> <target>
  ecmwfx [options] archive (check|ls|rm) --tube=<t> --storage=<s> <item>
  ecmwfx [options] archive (retrieve|insert) [--zstd] [--sync] --tube=<t> --storage=<s> <item> <local>
  ecmwfx [options] sms <cmd> [<args>...]
  ecmwfx [options] parse [--command-interface] [--] <argv>...
  ecmwfx [options] tools

Options:
  --log=<logger>     Specifies the logger: ''prod'', ''dev'', or ''mu''.
                     ''prod:<level>'' logs at a Zap level, for example
                     ''prod:debug'' to see the tool command lines.
                     [default: mu]
  --config=<path>    Site configuration file, YAML or legacy HCL.  ''~'' is
                     expanded.  Without it, only explicit arguments and
                     built-in defaults are used.
  --env-file=<path>  Dotenv file whose variables are added to the environment
                     of the external tools and of the SMS client.
  --flag=<f>         ECFS flag without dash, like ''o''.  Repeat the option
                     for multiple flags.  Without flags, the command defaults
                     apply.
  --zstd             Compress with zstd before sending or decompress after
                     receiving.
  --sync             Use a synchronous ectrans transfer.
  --gateway=<gw>     ectrans gateway instead of the configured
                     ''ectrans.gateway''.
  --remote=<r>       ectrans remote association instead of the configured
                     remote of the storage.
  --storage=<s>      Storage host, like ''hendrix.meteo.fr'' or
                     ''ecfs.ecmwf.int''.
  --tube=<t>         Archive tube, ''ecfs'' or ''ectrans''.
  --command-interface  The first positional argument is a sub-command, as
                     for ''ecfs''.

''ecmwfx ecfs'' runs the ECFS commands ''etest'', ''els'', ''emkdir'', ''erm'',
''echmod'', and ''ecp''.  ''get'' and ''put'' are ''ecp'' with optional
compression.  Local paths that contain a colon are staged, because ECFS would
treat them as remote.

''ecmwfx ectrans'' sends or receives a file through the gateway.  Puts are
asynchronous unless ''--sync''; ectrans then retries for twelve hours.

''ecmwfx archive'' accesses an archive item by tube and storage.  ECFS items
are escaped and prefixed with ''ec:''.

''ecmwfx sms'' sends an SMS child command, like ''complete'' or ''label
<name> <text>'', through ectrans to the update server that is configured by
''VORTEX_UPDSERVER_HOST'' and ''VORTEX_UPDSERVER_PATH''.

''ecmwfx parse'' decomposes a command line and prints its parts together with
the ''-name=v1,v2'' form that parses to the same parts.

''ecmwfx tools'' reports which of the site tools are available.
`))

type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
	Errorw(msg string, kv ...interface{})
	Fatalw(msg string, kv ...interface{})
}

var lg Logger = mulog.Printer{}

func main() {
	args := argparse()
	initLogging(args["--log"].(string))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	env := shell.EnvMap(os.Environ())
	if p, ok := args["--env-file"].(string); ok {
		dotenv, err := godotenv.Read(p)
		if err != nil {
			lg.Fatalw("Failed to read --env-file.", "err", err)
		}
		for k, v := range dotenv {
			env[k] = v
		}
	}
	sys := shell.NewLocalEnv(lg, env)

	cfg := siteconfig.New(nil)
	if p, ok := args["--config"].(string); ok {
		c, err := siteconfig.Load(lg, p)
		if err != nil {
			lg.Fatalw("Failed to load --config.", "err", err)
		}
		cfg = c
	}

	set := addons.NewSet(sys, cfg, lg)
	if err := set.Load(addons.GroupECMWF); err != nil {
		lg.Fatalw("Failed to load addons.", "err", err)
	}

	switch {
	case args["ecfs"].(bool):
		cmdECfs(ctx, args, set)
	case args["ectrans"].(bool):
		cmdECtrans(ctx, args, set)
	case args["archive"].(bool):
		cmdArchive(ctx, args, set)
	case args["sms"].(bool):
		cmdSms(ctx, args, set)
	case args["parse"].(bool):
		cmdParse(args, set)
	case args["tools"].(bool):
		cmdTools(set)
	default:
		panic("unhandled args")
	}
}

func initLogging(arg string) {
	l, err := newLogger(arg)
	if err != nil {
		log.Fatal(err)
	}
	lg = l
}

func newLogger(arg string) (Logger, error) {
	switch {
	case arg == "prod":
		return zap.NewProduction()
	case strings.HasPrefix(arg, "prod:"):
		l, err := zap.NewLevel(strings.TrimPrefix(arg, "prod:"))
		if err != nil {
			return nil, fmt.Errorf("Invalid --log level: %v", err)
		}
		return l, nil
	case arg == "dev":
		return zap.NewDevelopment()
	case arg == "mu":
		return mulog.Logger{}, nil
	default:
		return nil, fmt.Errorf("Invalid --log option.")
	}
}

func argparse() map[string]interface{} {
	const autoHelp = true
	const noOptionFirst = false
	args, err := docopt.Parse(
		usage, nil, autoHelp, version, noOptionFirst,
	)
	if err != nil {
		lg.Fatalw("docopt failed.", "err", err)
	}
	return args
}

// `argFlags()` returns nil if no `--flag` was given, so that the command
// defaults apply.
func argFlags(args map[string]interface{}) []string {
	flags, _ := args["--flag"].([]string)
	if len(flags) == 0 {
		return nil
	}
	return flags
}

func argString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func argBool(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// `exitResult()` exits with 1 if the operation reported failure.
func exitResult(ok bool, err error) {
	if err != nil {
		lg.Fatalw("Command failed.", "err", err)
	}
	if !ok {
		os.Exit(1)
	}
}
