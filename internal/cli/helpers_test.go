package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cimtab/internal/testutil"
)

// writeSampleDocument writes testutil.SampleNetwork as an EQ file.
func writeSampleDocument(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "grid_EQ.xml")
	doc := testutil.CIM16.Document(testutil.SampleNetwork()...)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// execute runs a command built by newCmd with args and returns stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
