package scrub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/stream"
)

// LineReader yields lines including their terminators. The final line may be
// returned together with io.EOF.
type LineReader interface {
	ReadLine() (string, error)
}

// RunOptions controls Run.
type RunOptions struct {
	Workers int         // goroutines scrubbing lines; values below 1 mean 1
	Logger  *log.Logger // defaults to log.Default()
}

// Stats summarizes a run.
type Stats struct {
	Lines    int         // lines read and written
	Changed  int         // lines whose output differs from the input
	Reverted int         // lines left unscrubbed because a rule failed
	Failures map[int]int // rule index -> lines it failed on
}

// Run scrubs every line from r with s and writes the results to w in input
// order. Rule failures are logged and counted; the affected lines are written
// unscrubbed. A generator failure, a read or write error, or cancellation of
// ctx stops the run.
func Run(ctx context.Context, s *Scrubber, r LineReader, w io.Writer, opts RunOptions) (Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	stats := Stats{Failures: make(map[int]int)}
	var (
		runErr error // written only from callbacks, which run serially
		failed atomic.Bool
	)

	fail := func(err error) {
		runErr = err
		failed.Store(true)
	}

	st := stream.New().WithMaxGoroutines(workers)
	var readErr error
	for n := 1; !failed.Load(); n++ {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}

		line, err := r.ReadLine()
		if line != "" {
			lineNo := n
			st.Go(func() stream.Callback {
				out, scrubErr := s.Scrub(line)
				return func() {
					if runErr != nil {
						return
					}

					var ruleErr *RuleError
					var genErr *GeneratorError
					switch {
					case errors.As(scrubErr, &genErr):
						fail(fmt.Errorf("line %d: %w", lineNo, genErr))
						return
					case errors.As(scrubErr, &ruleErr):
						stats.Reverted++
						stats.Failures[ruleErr.Index]++
						logger.Warn("rule failed, line left unscrubbed",
							"line", lineNo, "rule", ruleErr.Index, "pattern", ruleErr.Pattern, "err", ruleErr.Err)
					case scrubErr != nil:
						fail(fmt.Errorf("line %d: %w", lineNo, scrubErr))
						return
					}

					if _, err := io.WriteString(w, out); err != nil {
						fail(fmt.Errorf("write line %d: %w", lineNo, err))
						return
					}
					stats.Lines++
					if out != line {
						stats.Changed++
					}
				}
			})
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read line %d: %w", n, err)
			break
		}
	}
	st.Wait()

	if runErr != nil {
		return stats, runErr
	}
	if readErr != nil {
		return stats, readErr
	}
	logger.Debug("scrub complete", "lines", stats.Lines, "changed", stats.Changed, "reverted", stats.Reverted)
	return stats, nil
}
