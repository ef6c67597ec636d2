package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

type versionCmd struct {
	*root
	stdout io.Writer
}

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Run() error {
	out := v.stdout
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "%s version %s", v.program, version)
	if commit != "" {
		fmt.Fprintf(out, " (%s)", commit)
	}
	if date != "" {
		fmt.Fprintf(out, " built %s", date)
	}
	fmt.Fprintln(out)
	return nil
}
