package main

import (
	"context"

	"github.com/nogproject/ecmwf/backend/internal/addons"
)

func cmdECtrans(ctx context.Context, args map[string]interface{}, set *addons.Set) {
	tools, err := set.ECtrans()
	if err != nil {
		lg.Fatalw("Missing ectrans addon.", "err", err)
	}

	gateway, err := tools.GatewayInit(argString(args, "--gateway"))
	if err != nil {
		lg.Fatalw("Failed to determine gateway.", "err", err)
	}
	remote, err := tools.RemoteInit(
		argString(args, "--remote"), argString(args, "--storage"),
	)
	if err != nil {
		lg.Fatalw("Failed to determine remote.", "err", err)
	}

	src := argString(args, "<source>")
	dst := argString(args, "<target>")
	switch {
	case argBool(args, "put"):
		exitResult(tools.Put(
			ctx, src, dst, gateway, remote,
			argPipeline(args), argBool(args, "--sync"),
		))
	case argBool(args, "get"):
		exitResult(tools.Get(
			ctx, src, dst, gateway, remote, argPipeline(args),
		))
	default:
		panic("unhandled args")
	}
}
