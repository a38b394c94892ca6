package main

import (
	"context"
	"errors"
	"os"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/sms"
)

func cmdSms(ctx context.Context, args map[string]interface{}, set *addons.Set) {
	newClient, ok := sms.Schedulers.Resolve(sms.Kind)
	if !ok {
		lg.Fatalw("Missing SMS scheduler client.")
	}
	cl, err := newClient(lg, set, set.System().Environ())
	if err != nil {
		lg.Fatalw("Failed to create SMS client.", "err", err)
	}

	cmdArgs, _ := args["<args>"].([]string)
	ok, err = cl.Command(ctx, argString(args, "<cmd>"), cmdArgs)
	if errors.Is(err, sms.ErrNotConfigured) {
		cl.Info(os.Stderr)
	}
	exitResult(ok, err)
}
