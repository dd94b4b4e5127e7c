package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const squareFixture = `NAME: square4
DIMENSION: 4
EDGE_WEIGHT_TYPE: EUC_2D
NODE_COORD_SECTION
1 0.0 0.0
2 10.0 0.0
3 10.0 10.0
4 0.0 10.0
EOF
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "square.tsp")
	require.NoError(t, os.WriteFile(path, []byte(squareFixture), 0o644))
	return path
}

func TestRunSolvesSquareInstance(t *testing.T) {
	path := writeFixture(t)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	code := run([]string{path, "--candidates", "2", "--kopt", "2"}, outW, errW)
	outW.Close()
	errW.Close()

	require.Equal(t, 0, code)

	outBuf := make([]byte, 256)
	n, _ := outR.Read(outBuf)
	lines := string(outBuf[:n])
	require.Contains(t, lines, "0\n")
	require.Contains(t, lines, "1\n")
	require.Contains(t, lines, "2\n")
	require.Contains(t, lines, "3\n")

	errBuf := make([]byte, 256)
	n, _ = errR.Read(errBuf)
	require.Empty(t, string(errBuf[:n]))
}

func TestRunRejectsMissingFile(t *testing.T) {
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	code := run([]string{"/no/such/file.tsp"}, outW, errW)
	outW.Close()
	errW.Close()
	outR.Close()

	require.Equal(t, 1, code)
	errBuf := make([]byte, 256)
	n, _ := errR.Read(errBuf)
	require.Contains(t, string(errBuf[:n]), "solve:")
}

func TestRunRejectsBadArgCount(t *testing.T) {
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	code := run(nil, outW, errW)
	outW.Close()
	errW.Close()
	outR.Close()
	errR.Close()

	require.Equal(t, 2, code)
}
