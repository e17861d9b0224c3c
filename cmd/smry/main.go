package main

import (
	"fmt"
	"os"

	"github.com/brimdata/summary/cmd/smry/calc"
	"github.com/brimdata/summary/cmd/smry/derive"
	"github.com/brimdata/summary/cmd/smry/export"
	"github.com/brimdata/summary/cmd/smry/get"
	"github.com/brimdata/summary/cmd/smry/ls"
	"github.com/brimdata/summary/cmd/smry/root"
	"github.com/brimdata/summary/cmd/smry/serve"
	"github.com/brimdata/summary/cmd/smry/stats"
	"github.com/brimdata/summary/pkg/charm"
)

func main() {
	smry := root.Smry
	smry.Add(calc.Cmd)
	smry.Add(derive.Cmd)
	smry.Add(export.Cmd)
	smry.Add(get.Cmd)
	smry.Add(charm.Help)
	smry.Add(ls.Cmd)
	smry.Add(serve.Cmd)
	smry.Add(stats.Cmd)
	if err := smry.Exec(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
