// Package `sms` is a client of the SMS scheduler that does not need a local
// SMS installation.  Child commands like `complete` or `label` are written to
// a descriptor file that `ectrans` pushes to an update server, which replays
// them against the scheduler.
//
// A descriptor contains the command line followed by `VAR=value` lines of
// the SMS environment:
//
//	smslabel info done
//	SMSNAME=/suite/family/task
//	SMSNODE=ecgb
//	SWAPP_SERVER_ID=42
package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/ectrans"
	"github.com/nogproject/ecmwf/backend/internal/registry"
	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
	"github.com/nogproject/ecmwf/backend/pkg/uuid"
)

const (
	Kind = "sms"

	DefaultEnvPattern = "SMS"
	EnvServerID       = "SWAPP_SERVER_ID"
	EnvUpdServerHost  = "VORTEX_UPDSERVER_HOST"
	EnvUpdServerPath  = "VORTEX_UPDSERVER_PATH"

	cmdPrefix = "sms"
)

var ErrNotConfigured = errors.New("SMS client is not configured")
var ErrUnknownCommand = errors.New("unknown SMS command")

// `KnownCommands` are the child commands that `Command()` accepts.
var KnownCommands = []string{
	"abort",
	"complete",
	"event",
	"init",
	"label",
	"meter",
	"msg",
	"variable",
	"fix",
}

type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
}

type Factory func(lg Logger, set *addons.Set, env map[string]string) (*Client, error)

// `Schedulers` maps a scheduler kind to its client factory.
var Schedulers = registry.New[Factory]()

func init() {
	Schedulers.Register(Kind, registry.PriorityToolbox, New)
}

type Client struct {
	lg         Logger
	sys        shell.System
	ectrans    *ectrans.Tools
	env        map[string]string
	envPattern string

	configured bool
	remote     string
	gateway    string
	targetPath string
}

func New(lg Logger, set *addons.Set, env map[string]string) (*Client, error) {
	return NewPattern(lg, set, env, DefaultEnvPattern)
}

// `NewPattern()` creates a client that forwards environment variables that
// start with `envPattern`.  The client is configured only if the `ectrans`
// addon is loaded and the update server is set in the environment.
// Otherwise, it logs a warning, and child commands fail.
func NewPattern(
	lg Logger, set *addons.Set, env map[string]string, envPattern string,
) (*Client, error) {
	c := &Client{
		lg:         lg,
		sys:        set.System(),
		env:        copyEnv(env),
		envPattern: envPattern,
	}

	host, hasHost := env[EnvUpdServerHost]
	tpath, hasPath := env[EnvUpdServerPath]
	if !set.IsLoaded(addons.KindECtrans) || !hasHost || !hasPath {
		lg.Warnw(
			"SMS client could not be configured.",
			"ectrans", set.IsLoaded(addons.KindECtrans),
			EnvUpdServerHost, hasHost,
			EnvUpdServerPath, hasPath,
		)
		return c, nil
	}

	tools, err := set.ECtrans()
	if err != nil {
		return nil, err
	}
	remote, err := tools.RemoteInit("", host)
	if err != nil {
		return nil, err
	}
	gateway, err := tools.GatewayInit("")
	if err != nil {
		return nil, err
	}

	c.ectrans = tools
	c.configured = true
	c.remote = remote
	c.gateway = gateway
	c.targetPath = tpath
	return c, nil
}

func copyEnv(env map[string]string) map[string]string {
	c := make(map[string]string, len(env))
	for k, v := range env {
		c[k] = v
	}
	return c
}

func (c *Client) Configured() bool { return c.configured }

// `CmdRename()` strips any `sms` prefix, so that `smscomplete` and `complete`
// are the same command.
func CmdRename(cmd string) string {
	for strings.HasPrefix(cmd, cmdPrefix) {
		cmd = cmd[len(cmdPrefix):]
	}
	return cmd
}

func IsKnown(cmd string) bool {
	cmd = CmdRename(cmd)
	for _, k := range KnownCommands {
		if k == cmd {
			return true
		}
	}
	return false
}

// `Descriptor()` returns the descriptor file content for a child command.
func (c *Client) Descriptor(cmd string, options []string) string {
	var b strings.Builder
	args := append([]string{cmdPrefix + CmdRename(cmd)}, options...)
	b.WriteString(strings.Join(args, " "))
	b.WriteString("\n")
	for _, prefix := range []string{c.envPattern, EnvServerID} {
		keys := make([]string, 0)
		for k := range c.env {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s=%s\n", k, c.env[k])
		}
	}
	return b.String()
}

// `Child()` sends a child command to the update server.
func (c *Client) Child(
	ctx context.Context, cmd string, options []string,
) (bool, error) {
	if !c.configured {
		return false, ErrNotConfigured
	}

	fp, err := c.sys.TempFile("", "smscmd_send.")
	if err != nil {
		return false, err
	}
	name := fp.Name()
	defer func() {
		if err := c.sys.Remove(name); err != nil {
			c.lg.Warnw("Failed to remove descriptor.", "path", name, "err", err)
		}
	}()
	if _, err := io.WriteString(fp, c.Descriptor(cmd, options)); err != nil {
		_ = fp.Close()
		return false, err
	}
	if err := fp.Close(); err != nil {
		return false, err
	}

	id, err := uuid.NewHex()
	if err != nil {
		return false, err
	}
	target := path.Join(c.targetPath, "smsupd."+id)
	c.lg.Debugw("Sending SMS command.", "cmd", cmd, "target", target)

	var extra cmdline.Options
	extra.Set(ectrans.OptPriority, "99")
	extra.Set(ectrans.OptRetryCnt, "15")
	extra.Set(ectrans.OptRetryFrq, "120")
	return c.ectrans.RawPut(
		ctx, name, target, c.gateway, c.remote,
		ectrans.Params{Sync: true, Extra: extra},
	)
}

// `Command()` runs a known child command.
func (c *Client) Command(
	ctx context.Context, name string, args []string,
) (bool, error) {
	if !IsKnown(name) {
		return false, fmt.Errorf("%w `%s`", ErrUnknownCommand, name)
	}
	return c.Child(ctx, name, args)
}

// `Info()` dumps the configuration.
func (c *Client) Info(w io.Writer) {
	fmt.Fprintf(w, "SMS client, env pattern %s:\n", c.envPattern)
	if !c.configured {
		fmt.Fprintln(w, "  NO CONFIGURATION")
		return
	}
	fmt.Fprintf(w, "  gateway=%s\n", c.gateway)
	fmt.Fprintf(w, "  remote=%s\n", c.remote)
	fmt.Fprintf(w, "  targetpath=%s\n", c.targetPath)
}
