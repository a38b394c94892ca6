// Package `transfer` holds the options that archives and stores pass to the
// ECMWF addons and the extras that they report back.
package transfer

import "github.com/nogproject/ecmwf/backend/internal/compress"

// `DefaultFmt` is the format that is used when none is given.
const DefaultFmt = "foo"

// `Options` are the per-call transfer options.  `Options == nil` selects the
// default tool flags; a non-nil empty slice passes no flags.
type Options struct {
	Fmt         string
	Pipeline    compress.Pipeline
	Gateway     string
	Remote      string
	EnforceSync bool
	Options     []string
}

// `Extras` echo the format and pipeline that an operation used.
type Extras struct {
	Fmt      string
	Pipeline compress.Pipeline
}

func (o Options) ResolvedFmt() string {
	if o.Fmt == "" {
		return DefaultFmt
	}
	return o.Fmt
}

func (o Options) Extras() Extras {
	return Extras{Fmt: o.ResolvedFmt(), Pipeline: o.Pipeline}
}

// `FlagsOrEmpty()` returns an explicit flag list, using an empty list if none
// was given.
func (o Options) FlagsOrEmpty() []string {
	if o.Options == nil {
		return []string{}
	}
	return o.Options
}
