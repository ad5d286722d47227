package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sonnes/logscrub/config"
	"github.com/sonnes/logscrub/fake"
	"github.com/sonnes/logscrub/scrub"
	"github.com/urfave/cli/v3"
)

// ruleFlags are shared by every command that builds a Scrubber.
func ruleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "pattern",
			Aliases: []string{"p", "patterns"},
			Usage:   "Regular expression to scrub (repeatable, applied in order)",
		},
		&cli.StringFlag{
			Name:    "replace-with",
			Aliases: []string{"r", "replace_with"},
			Usage:   "Replacement text, or one of fake_name, fake_email, fake_address, fake_phone_number, fake_credit_card_number. Default: delete",
		},
		&cli.DurationFlag{
			Name:  "match-timeout",
			Usage: "Maximum time a single rule may spend matching one line, 0 for no limit (default: 5s)",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for fake data, 0 for random",
		},
	}
}

func encodingFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "encoding",
		Usage: "Input encoding, e.g. utf-8, latin1, utf-16le (default: auto-detect)",
	}
}

// loadConfig reads the config file and applies any flags set on cmd.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("pattern") {
		cfg.Patterns = cmd.StringSlice("pattern")
	}
	if cmd.IsSet("replace-with") {
		cfg.ReplaceWith = cmd.String("replace-with")
	}
	if cmd.IsSet("match-timeout") {
		cfg.MatchTimeout = cmd.Duration("match-timeout")
	}
	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Uint64("seed")
	}
	if cmd.IsSet("encoding") {
		cfg.Encoding = cmd.String("encoding")
	}
	if cmd.IsSet("inplace") {
		cfg.Inplace = cmd.Bool("inplace")
	}
	if cmd.IsSet("workers") {
		cfg.Workers = cmd.Int("workers")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Patterns) == 0 {
		return nil, fmt.Errorf("at least one --pattern is required")
	}
	return cfg, nil
}

// newScrubber builds a Scrubber from cfg and warns about rules that did not
// compile.
func newScrubber(cfg *config.Config) (*scrub.Scrubber, error) {
	policy := scrub.ParsePolicy(cfg.ReplaceWith)

	var gen fake.Generator
	if policy.Kind() == scrub.KindSynthetic {
		gen = fake.New(cfg.Seed)
	}

	s, err := scrub.New(scrub.Config{
		Patterns:     cfg.Patterns,
		Policy:       policy,
		Generator:    gen,
		MatchTimeout: cfg.MatchTimeout,
	})
	if err != nil {
		return nil, err
	}

	for _, e := range s.Invalid() {
		log.Warn("invalid pattern, lines reaching it are left unscrubbed", "rule", e.Index, "pattern", e.Pattern, "err", e.Err)
	}
	log.Debug("scrubber ready", "rules", len(s.Rules()), "policy", policy.String())
	return s, nil
}
