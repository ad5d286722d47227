package scrub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/sonnes/logscrub/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceReader yields lines in order, returning the last one with io.EOF.
type sliceReader struct {
	lines []string
	err   error
}

func (r *sliceReader) ReadLine() (string, error) {
	if len(r.lines) == 0 {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if len(r.lines) == 0 && r.err == nil {
		return line, io.EOF
	}
	return line, nil
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func quietLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(buf)
}

func TestRun(t *testing.T) {
	input := "User john@example.com logged in\n" +
		"IP 192.168.1.1 connected\n" +
		"\n" +
		"no trailing newline"
	s := newScrubber(t, Literal("REDACTED"), nil, emailPattern, ipv4Pattern)

	var out, logs bytes.Buffer
	stats, err := Run(context.Background(), s, &sliceReader{lines: splitLines(input)}, &out, RunOptions{Logger: quietLogger(&logs)})
	require.NoError(t, err)

	assert.Equal(t, "User REDACTED logged in\n"+
		"IP REDACTED connected\n"+
		"\n"+
		"no trailing newline", out.String())
	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 2, stats.Changed)
	assert.Zero(t, stats.Reverted)
}

func TestRunEmptyInput(t *testing.T) {
	s := newScrubber(t, Delete(), nil, emailPattern)
	var out bytes.Buffer
	stats, err := Run(context.Background(), s, &sliceReader{}, &out, RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Zero(t, stats.Lines)
}

func TestRunParallelPreservesOrder(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "%04d user%d@example.com from 10.0.%d.%d\n", i, i, i%256, (i*7)%256)
	}
	input := b.String()
	gen := fake.Static{fake.Email: "someone@fake.test"}

	run := func(workers int) string {
		s := newScrubber(t, Synthetic(fake.Email), gen, emailPattern, ipv4Pattern)
		var out, logs bytes.Buffer
		stats, err := Run(context.Background(), s, &sliceReader{lines: splitLines(input)}, &out,
			RunOptions{Workers: workers, Logger: quietLogger(&logs)})
		require.NoError(t, err)
		assert.Equal(t, 500, stats.Lines)
		return out.String()
	}

	sequential := run(1)
	parallel := run(8)
	assert.Equal(t, sequential, parallel)

	got := splitLines(parallel)
	require.Len(t, got, 500)
	for i, line := range got {
		assert.True(t, strings.HasPrefix(line, fmt.Sprintf("%04d ", i)), "line %d: %q", i, line)
	}
}

func TestRunInvalidRuleKeepsEveryLine(t *testing.T) {
	input := "a secret\nanother secret\nplain\n"
	s := newScrubber(t, Delete(), nil, `secret`, `[bad`)

	var out, logs bytes.Buffer
	stats, err := Run(context.Background(), s, &sliceReader{lines: splitLines(input)}, &out, RunOptions{Logger: quietLogger(&logs)})
	require.NoError(t, err)

	assert.Equal(t, input, out.String())
	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, 3, stats.Reverted)
	assert.Zero(t, stats.Changed)
	assert.Equal(t, map[int]int{1: 3}, stats.Failures)
	assert.Contains(t, logs.String(), "rule failed")
	assert.Contains(t, logs.String(), "[bad")
}

func TestRunGeneratorFailureStops(t *testing.T) {
	input := "Alan Turing\nAda Lovelace\nGrace Hopper\n"
	s := newScrubber(t, Synthetic(fake.Name), &flaky{after: 2}, `[A-Z][a-z]+ [A-Z][a-z]+`)

	var out, logs bytes.Buffer
	_, err := Run(context.Background(), s, &sliceReader{lines: splitLines(input)}, &out, RunOptions{Logger: quietLogger(&logs)})

	var genErr *GeneratorError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, "Jane Doe\n", out.String())
}

func TestRunReadError(t *testing.T) {
	s := newScrubber(t, Delete(), nil, `x`)
	boom := errors.New("disk on fire")

	var out bytes.Buffer
	_, err := Run(context.Background(), s, &sliceReader{lines: []string{"x1\n"}, err: boom}, &out, RunOptions{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "1\n", out.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("no space left") }

func TestRunWriteError(t *testing.T) {
	s := newScrubber(t, Delete(), nil, `x`)
	_, err := Run(context.Background(), s, &sliceReader{lines: []string{"x\n", "y\n"}}, brokenWriter{}, RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write line 1")
}

func TestRunCanceled(t *testing.T) {
	s := newScrubber(t, Delete(), nil, `x`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := Run(ctx, s, &sliceReader{lines: []string{"x\n"}}, &out, RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
