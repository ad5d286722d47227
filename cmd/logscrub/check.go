package main

import (
	"context"
	"fmt"

	"github.com/sonnes/logscrub/report"
	"github.com/urfave/cli/v3"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate patterns and the replacement policy without reading any file",
		Description: `Compiles every pattern and, for fake_* replacements, generates one value
to confirm the generator works. Exits non-zero if any pattern is invalid.`,
		Flags: ruleFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := newScrubber(cfg)
			if err != nil {
				return err
			}

			p := report.New(cmd.Root().Writer)
			if n := p.Invalid(s.Rules()); n > 0 {
				return fmt.Errorf("%d of %d patterns are invalid", n, len(s.Rules()))
			}
			fmt.Fprintf(cmd.Root().Writer, "%d patterns ok, policy %s\n", len(s.Rules()), s.Policy())
			return nil
		},
	}
}
