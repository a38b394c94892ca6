package cmdline

// `Valued` is a named option with one or more values, rendered as `-<name>
// <value>...`.
type Valued struct {
	Name   string
	Values []string
}

// `Options` are the named options of a command line.  `Flags` are rendered
// without values.  `Valued` options are rendered with their values.  Both
// keep insertion order, so that command lines are deterministic.  The
// caller decides whether a name is a flag or a valued option.
type Options struct {
	Flags  []string
	Valued []Valued
}

// `Flags()` is a convenience constructor.
func Flags(names ...string) Options {
	var o Options
	o.AddFlag(names...)
	return o
}

// `AddFlag()` appends flags that are not yet present.
func (o *Options) AddFlag(names ...string) {
	for _, n := range names {
		if !o.HasFlag(n) {
			o.Flags = append(o.Flags, n)
		}
	}
}

func (o *Options) HasFlag(name string) bool {
	for _, f := range o.Flags {
		if f == name {
			return true
		}
	}
	return false
}

func (o *Options) index(name string) int {
	for i, v := range o.Valued {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// `Set()` replaces the values of `name` in place or appends a new valued
// option.
func (o *Options) Set(name string, values ...string) {
	vs := append([]string(nil), values...)
	if i := o.index(name); i >= 0 {
		o.Valued[i].Values = vs
		return
	}
	o.Valued = append(o.Valued, Valued{Name: name, Values: vs})
}

// `SetDefault()` sets `name` only if it is not yet a valued option.  It
// reports whether it changed the options.
func (o *Options) SetDefault(name string, values ...string) bool {
	if o.index(name) >= 0 {
		return false
	}
	o.Set(name, values...)
	return true
}

func (o *Options) Get(name string) ([]string, bool) {
	i := o.index(name)
	if i < 0 {
		return nil, false
	}
	return o.Valued[i].Values, true
}

// `Has()` reports whether `name` is used either as a flag or as a valued
// option.
func (o *Options) Has(name string) bool {
	return o.HasFlag(name) || o.index(name) >= 0
}

// `Clone()` returns a deep copy, so that callers can add defaults without
// modifying options that they received from their callers.
func (o Options) Clone() Options {
	c := Options{}
	if o.Flags != nil {
		c.Flags = append([]string{}, o.Flags...)
	}
	for _, v := range o.Valued {
		c.Valued = append(c.Valued, Valued{
			Name:   v.Name,
			Values: append([]string{}, v.Values...),
		})
	}
	return c
}

// `Len()` returns the number of named options.
func (o *Options) Len() int {
	return len(o.Flags) + len(o.Valued)
}
