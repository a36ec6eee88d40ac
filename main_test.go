// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand(context.Background(), strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestModes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{
			name:     "tokens",
			stdin:    "A B  C",
			args:     []string{},
			expected: "A\nB\nC\n",
		},
		{
			name:     "tokens with empty tokens",
			stdin:    "a  b",
			args:     []string{"--delimiter", `\s`},
			expected: "a\n\nb\n",
		},
		{
			name:     "tokens skipping empty tokens",
			stdin:    "a  b",
			args:     []string{"--delimiter", `\s`, "--skip-empty"},
			expected: "a\nb\n",
		},
		{
			name:     "lines",
			stdin:    "x\r\ny\nz",
			args:     []string{"--mode", "lines"},
			expected: "x\ny\nz\n",
		},
		{
			name:     "typed",
			stdin:    "42 1,000.5 NaN yes 2024-07-04 fish",
			args:     []string{"--mode", "typed", "--locale", "en-US"},
			expected: "int\t42\ndecimal\t1000.5\nfloat\tNaN\nbool\ttrue\ntime\t2024-07-04T00:00:00Z\ntext\tfish\n",
		},
		{
			name:     "typed german",
			stdin:    "1.000,5 wahr",
			args:     []string{"--mode", "typed", "--locale", "de_DE.UTF-8"},
			expected: "decimal\t1000.5\nbool\ttrue\n",
		},
		{
			name:     "find with groups",
			stdin:    "a=1\nnone\nb=22",
			args:     []string{"--mode", "find", "--pattern", `(\w+)=(\d+)`},
			expected: "1\ta\t1\n3\tb\t22\n",
		},
		{
			name:     "find without groups",
			stdin:    "one fish\ntwo fish",
			args:     []string{"--mode", "find", "--pattern", `t\w+`},
			expected: "2\ttwo\n",
		},
		{
			name:     "encoding",
			stdin:    "caf\xe9",
			args:     []string{"--encoding", "latin1"},
			expected: "café\n",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, testCase.stdin, testCase.args...)
			require.Nil(t, err)
			require.Equal(t, testCase.expected, out)
		})
	}
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.Nil(t, os.WriteFile(first, []byte("1 2"), 0o644))
	require.Nil(t, os.WriteFile(second, []byte("3"), 0o644))

	out, err := execute(t, "ignored", first, second)
	require.Nil(t, err)
	require.Equal(t, "1\n2\n3\n", out)

	_, err = execute(t, "", filepath.Join(dir, "missing.txt"))
	require.NotNil(t, err)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.Nil(t, os.WriteFile(path, []byte("mode: lines\ndelimiter: ','\n"), 0o644))

	out, err := execute(t, "p,q r\ns", "--profile", path)
	require.Nil(t, err)
	require.Equal(t, "p,q r\ns\n", out)

	out, err = execute(t, "p,q r", "--profile", path, "--mode", "tokens")
	require.Nil(t, err)
	require.Equal(t, "p\nq r\n", out)
}

func TestInvalidSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.yaml")
	require.Nil(t, os.WriteFile(unknown, []byte("mode: tokens\ncolour: blue\n"), 0o644))

	testCases := []struct {
		name string
		args []string
	}{
		{name: "unknown mode", args: []string{"--mode", "bogus"}},
		{name: "find without pattern", args: []string{"--mode", "find"}},
		{name: "bad delimiter", args: []string{"--delimiter", "("}},
		{name: "bad locale", args: []string{"--locale", "not a locale!"}},
		{name: "bad encoding", args: []string{"--encoding", "klingon-8"}},
		{name: "unknown profile key", args: []string{"--profile", unknown}},
		{name: "missing profile", args: []string{"--profile", filepath.Join(dir, "missing.yaml")}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, "x", testCase.args...)
			require.NotNil(t, err)
		})
	}
}
