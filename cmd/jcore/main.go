// Command jcore checks, compiles and disassembles Java subset sources and
// runs compiler fixtures.
package main

import (
	"errors"
	"os"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	a := newApp()
	if err := newRootCmd(a).Execute(); err != nil {
		if errors.Is(err, errFailed) {
			os.Exit(1)
		}
		fatal(err)
	}
}
