package main

import (
	"context"
	"fmt"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/compress"
)

func argPipeline(args map[string]interface{}) compress.Pipeline {
	if argBool(args, "--zstd") {
		return compress.Zstd{}
	}
	return nil
}

func cmdECfs(ctx context.Context, args map[string]interface{}, set *addons.Set) {
	tools, err := set.ECfs()
	if err != nil {
		lg.Fatalw("Missing ECFS addon.", "err", err)
	}
	flags := argFlags(args)
	item := argString(args, "<item>")
	src := argString(args, "<source>")
	dst := argString(args, "<target>")

	switch {
	case argBool(args, "test"):
		exitResult(tools.Test(ctx, item, flags))
	case argBool(args, "ls"):
		out, err := tools.Ls(ctx, item, flags)
		if err != nil {
			lg.Fatalw("Listing failed.", "err", err)
		}
		fmt.Print(out)
	case argBool(args, "mkdir"):
		exitResult(tools.Mkdir(ctx, item, flags))
	case argBool(args, "rm"):
		exitResult(tools.Rm(ctx, item, flags))
	case argBool(args, "chmod"):
		exitResult(tools.Chmod(ctx, argString(args, "<mode>"), item, flags))
	case argBool(args, "cp"):
		exitResult(tools.Cp(ctx, src, dst, flags))
	case argBool(args, "get"):
		exitResult(tools.Get(ctx, src, dst, argPipeline(args), flags))
	case argBool(args, "put"):
		exitResult(tools.Put(ctx, src, dst, argPipeline(args), flags))
	default:
		panic("unhandled args")
	}
}
