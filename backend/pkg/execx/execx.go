// Package `execx` provides utility functions that supplement the stdlib
// package `os/exec`.
//
// `LookTool()` locates external command line tools, like the ECFS
// sub-commands and `ectrans`, and optionally verifies that they respond as
// expected.
package execx

import (
	"fmt"
	"os/exec"
	"strings"
)

// `ToolSpec` is used to tell `LookTool()` how to look for an external tool.
// If `CheckArgs` is empty, the tool is only located in `PATH`, because some
// site tools, like `etest`, do not have a version option.
type ToolSpec struct {
	Program   string
	CheckArgs []string
	CheckText string
}

type Tool struct {
	Program string
	Path    string
}

func LookTool(s ToolSpec) (*Tool, error) {
	path, err := exec.LookPath(s.Program)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to find path of `%s`: %v", s.Program, err,
		)
	}

	if len(s.CheckArgs) == 0 {
		return &Tool{Program: s.Program, Path: path}, nil
	}

	o, err := exec.Command(path, s.CheckArgs...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf(
			"failed to execute `%s %s`: %v", path,
			strings.Join(s.CheckArgs, " "), err,
		)
	}
	if !strings.Contains(string(o), s.CheckText) {
		return nil, fmt.Errorf(
			"`%s %s` did not print `%s`", s.Program,
			strings.Join(s.CheckArgs, " "), s.CheckText,
		)
	}

	return &Tool{Program: s.Program, Path: path}, nil
}

// `Lookup` is the result of `LookTools()` for a single spec.
type Lookup struct {
	Spec ToolSpec
	Tool *Tool
	Err  error
}

// `LookTools()` runs `LookTool()` for each spec and reports all results,
// so that a caller can print a complete overview of missing tools.
func LookTools(specs []ToolSpec) []Lookup {
	res := make([]Lookup, 0, len(specs))
	for _, s := range specs {
		t, err := LookTool(s)
		res = append(res, Lookup{Spec: s, Tool: t, Err: err})
	}
	return res
}
