package main

import (
	"fmt"
	"os"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/ecfs"
	"github.com/nogproject/ecmwf/backend/internal/ecmwfcli"
	"github.com/nogproject/ecmwf/backend/pkg/execx"
)

// The ECFS commands have no version option, so they are only located.
func toolSpecs(ectransProgram string) []execx.ToolSpec {
	specs := []execx.ToolSpec{}
	for _, p := range []string{
		ecfs.CmdTest,
		ecfs.CmdChmod,
		ecfs.CmdLs,
		ecfs.CmdMkdir,
		ecfs.CmdCp,
		ecfs.CmdRm,
	} {
		specs = append(specs, execx.ToolSpec{Program: p})
	}
	return append(specs, execx.ToolSpec{Program: ectransProgram})
}

func cmdTools(set *addons.Set) {
	ectrans := ecmwfcli.NewECtrans(set.System(), set.Config(), lg)
	missing := 0
	for _, l := range execx.LookTools(toolSpecs(ectrans.ActualCommand(""))) {
		if l.Err != nil {
			fmt.Printf("missing %s: %v\n", l.Spec.Program, l.Err)
			missing++
			continue
		}
		fmt.Printf("ok %s %s\n", l.Tool.Program, l.Tool.Path)
	}
	if missing > 0 {
		os.Exit(1)
	}
}
