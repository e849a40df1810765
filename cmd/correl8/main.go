// correl8 - Pattern Correlation Engine
//
// correl8 groups chronologically-ordered events into short-lived contexts
// per a declarative configuration, and alerts as those contexts open,
// close, or time out.
package main

import (
	"os"

	"github.com/ccollicutt/correl8/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
