// Package format pipes generated source through an external formatter. A
// missing or failing formatter leaves the text unformatted; only a parse error
// reported on the generated text is fatal.
package format

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/logger"
	"golang.org/x/sync/errgroup"
)

// ErrParse is returned when the formatter reports the input as malformed
var ErrParse = errors.New("formatter could not parse generated source")

// NoExitCode disables the partial or parse-error exit code of a Tool
const NoExitCode = -1

// Tool is an external formatter reading source on stdin and writing the
// formatted source to stdout
type Tool struct {
	Name string
	// Path is the executable; empty when the tool was not found
	Path string
	Args []string
	// PartialExit is the exit code meaning some input could not be formatted
	// but the output is usable
	PartialExit int
	// ParseExit is the exit code meaning the input is malformed
	ParseExit int
}

// Locate finds an executable through the env override or PATH. It returns an
// empty string when neither has it.
func Locate(name, envVar string) string {
	if path := os.Getenv(envVar); path != "" {
		return path
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

// Gofmt formats Go source. gofmt exits 2 on syntax errors.
func Gofmt() *Tool {
	return &Tool{
		Name:        "gofmt",
		Path:        Locate("gofmt", "GOFMT"),
		PartialExit: NoExitCode,
		ParseExit:   2,
	}
}

// ClangFormat formats C sources and headers
func ClangFormat(style string) *Tool {
	tool := &Tool{
		Name:        "clang-format",
		Path:        Locate("clang-format", "CLANG_FORMAT"),
		PartialExit: NoExitCode,
		ParseExit:   NoExitCode,
	}
	if style != "" {
		tool.Args = []string{"--style=" + style}
	}
	return tool
}

// Format returns the formatted source, or src itself when the tool is
// unavailable or fails for any reason other than a parse error.
func (t *Tool) Format(ctx context.Context, src []byte) ([]byte, error) {
	if t.Path == "" {
		logger.Logger.Warnw("Formatter not found, leaving source unformatted", "formatter", t.Name)
		return src, nil
	}

	out, exitCode, stderr, err := t.run(ctx, src)
	switch {
	case err == nil && exitCode == 0:
		return out, nil
	case exitCode != NoExitCode && exitCode == t.PartialExit:
		logger.Logger.Warnw("Formatter could not format every line",
			"formatter", t.Name, "stderr", stderr)
		return out, nil
	case exitCode != NoExitCode && exitCode == t.ParseExit:
		return nil, errors.WithDetail(
			errors.Wrapf(ErrParse, "%s exited with %d", t.Name, exitCode), stderr)
	}
	logger.Logger.Warnw("Formatter failed, leaving source unformatted",
		"formatter", t.Name, "exit", exitCode, "stderr", stderr, "error", err)
	return src, nil
}

// run feeds src to the tool from a second goroutine while draining stdout,
// so neither side blocks on a full pipe
func (t *Tool) run(ctx context.Context, src []byte) ([]byte, int, string, error) {
	cmd := exec.CommandContext(ctx, t.Path, t.Args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, NoExitCode, "", errors.Wrap(err, "stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, NoExitCode, "", errors.Wrap(err, "stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, NoExitCode, "", errors.Wrapf(err, "start %s", t.Path)
	}

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		_, err := stdin.Write(src)
		return err
	})
	out, readErr := io.ReadAll(stdout)
	writeErr := g.Wait()
	waitErr := cmd.Wait()

	message := strings.TrimSpace(stderr.String())
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return out, exitErr.ExitCode(), message, waitErr
	}
	if waitErr != nil {
		return nil, NoExitCode, message, waitErr
	}
	if readErr != nil {
		return nil, NoExitCode, message, errors.Wrap(readErr, "read stdout")
	}
	if writeErr != nil {
		return nil, NoExitCode, message, errors.Wrap(writeErr, "write stdin")
	}
	return out, 0, message, nil
}
