package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/config"
	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/cshum/vipsbindgen/internal/logger"
	"github.com/kballard/go-shellquote"
)

// readCatalog returns the introspection dump from the configured input file,
// stdin or the introspection command
func readCatalog(ctx context.Context, cfg *config.Config, stdin io.Reader) (string, error) {
	switch input := cfg.Introspect.Input; input {
	case "":
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read catalog from stdin")
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return "", errors.Wrap(err, "failed to read catalog")
		}
		return string(data), nil
	}

	args, err := shellquote.Split(cfg.Introspect.Command)
	if err != nil {
		return "", errors.Wrapf(err, "malformed introspect.command %q", cfg.Introspect.Command)
	}
	if len(args) == 0 {
		return "", errors.WithHint(errors.New("no catalog source"),
			"pass --input or set introspect.command")
	}

	logger.Logger.Infow("Running introspection", "command", args)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", errors.WithHint(
			errors.WithDetail(errors.Wrapf(err, "introspection command %s failed", args[0]),
				strings.TrimSpace(stderr.String())),
			"build the introspection helper or pass a dump with --input")
	}
	return string(out), nil
}

// loadOperations reads and parses the catalog
func (a *app) loadOperations(ctx context.Context) ([]introspection.Operation, error) {
	text, err := readCatalog(ctx, a.cfg, a.stdin)
	if err != nil {
		return nil, err
	}
	ops, err := introspection.NewParser(a.cfg.ParserRules()).Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	logger.Logger.Infow("Parsed catalog", "operations", len(ops))
	return ops, nil
}
