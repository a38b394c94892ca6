package main

import (
	"context"
	"fmt"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/archives"
	"github.com/nogproject/ecmwf/backend/internal/transfer"
)

func cmdArchive(ctx context.Context, args map[string]interface{}, set *addons.Set) {
	a, err := archives.New(set, lg, archives.Params{
		Tube:    argString(args, "--tube"),
		Storage: argString(args, "--storage"),
	})
	if err != nil {
		lg.Fatalw("Failed to create archive.", "err", err)
	}

	item := argString(args, "<item>")
	local := argString(args, "<local>")
	opts := transfer.Options{
		Pipeline:    argPipeline(args),
		EnforceSync: argBool(args, "--sync"),
	}

	var ok bool
	var x transfer.Extras
	switch {
	case argBool(args, "check"):
		ok, x, err = a.Check(ctx, item, opts)
	case argBool(args, "ls"):
		var entries []string
		entries, x, err = a.List(ctx, item, opts)
		for _, e := range entries {
			fmt.Println(e)
		}
		ok = true
	case argBool(args, "rm"):
		ok, x, err = a.Delete(ctx, item, opts)
	case argBool(args, "retrieve"):
		ok, x, err = a.Retrieve(ctx, item, local, opts)
	case argBool(args, "insert"):
		ok, x, err = a.Insert(ctx, item, local, opts)
	default:
		panic("unhandled args")
	}
	lg.Debugw("Archive operation done.", "ok", ok, "fmt", x.Fmt)
	exitResult(ok, err)
}
