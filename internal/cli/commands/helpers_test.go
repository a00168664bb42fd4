package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const hisat2Log = `HISAT2 summary stats:
	Total reads: 1000
		Aligned 0 time: 50 (5.00%)
		Aligned 1 time: 900 (90.00%)
		Aligned >1 times: 50 (5.00%)
	Overall alignment rate: 95.00%
`

const leehomLog = `Total reads :                   1000000
Merged (trimming)                 200000   20.000%
Merged (overlap)                  300000   30.000%
Kept PE/SR                        450000   45.000%
Trimmed SR                         10000    1.000%
Adapter dimers/chimeras            30000    3.000%
Failed Key                         10000    1.000%
`

// writeFiles writes files (relative path -> content) under a new temp dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// execute runs cmd with args and returns what it printed to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	ExitCode = 0
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
