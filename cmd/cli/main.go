// qclog - QC log summariser
//
// qclog finds the output of bioinformatics QC tools, parses every log and
// reports per-sample metrics alongside machine-readable data files.
package main

import (
	"os"

	"github.com/ccollicutt/qclog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
