// Package pkgconfig locates libvips through pkg-config and renders the cgo
// directives the runtime package builds with.
package pkgconfig

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/logger"
	"github.com/kballard/go-shellquote"
)

// DefaultPackage is the pkg-config name of libvips
const DefaultPackage = "vips"

// Runner executes a command and returns its stdout
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Library is a discovered native library
type Library struct {
	Package string
	Version *semver.Version
	CFlags  []string
	Libs    []string
}

// Query runs pkg-config for one package
type Query struct {
	Tool    string
	Package string
	run     Runner
}

// New creates a query for pkg, using $PKG_CONFIG or pkg-config from PATH
func New(pkg string) *Query {
	tool := os.Getenv("PKG_CONFIG")
	if tool == "" {
		tool = "pkg-config"
	}
	return &Query{Tool: tool, Package: pkg, run: execRunner}
}

// WithRunner replaces the command runner
func (q *Query) WithRunner(run Runner) *Query {
	q.run = run
	return q
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "%s not found", name),
			"install pkg-config or set PKG_CONFIG")
	}
	out, err := exec.CommandContext(ctx, path, args...).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, errors.WithDetail(errors.Wrapf(err, "%s %s", name, strings.Join(args, " ")),
			strings.TrimSpace(string(exitErr.Stderr)))
	}
	return out, err
}

func (q *Query) query(ctx context.Context, flag string) (string, error) {
	out, err := q.run(ctx, q.Tool, flag, q.Package)
	if err != nil {
		return "", errors.Wrapf(err, "pkg-config %s %s", flag, q.Package)
	}
	return strings.TrimSpace(string(out)), nil
}

// Discover queries flags and version and checks the version against
// constraint. An empty constraint accepts any version.
func (q *Query) Discover(ctx context.Context, constraint string) (*Library, error) {
	version, err := q.query(ctx, "--modversion")
	if err != nil {
		return nil, err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s version %q", q.Package, version)
	}
	if constraint != "" {
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid version constraint %q", constraint)
		}
		if !c.Check(v) {
			return nil, errors.WithHint(
				errors.Newf("%s %s does not satisfy %s", q.Package, v, constraint),
				"upgrade libvips or relax pkgconfig.min_version")
		}
	}

	lib := &Library{Package: q.Package, Version: v}
	cflags, err := q.query(ctx, "--cflags")
	if err != nil {
		return nil, err
	}
	if lib.CFlags, err = SplitFlags(cflags); err != nil {
		return nil, err
	}
	libs, err := q.query(ctx, "--libs")
	if err != nil {
		return nil, err
	}
	if lib.Libs, err = SplitFlags(libs); err != nil {
		return nil, err
	}

	logger.Logger.Debugw("Discovered native library",
		"package", q.Package, "version", v.String(), "cflags", lib.CFlags, "libs", lib.Libs)
	return lib, nil
}

// SplitFlags splits pkg-config output with shell quoting rules, so quoted
// paths containing spaces stay whole
func SplitFlags(s string) ([]string, error) {
	flags, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed flags %q", s)
	}
	return flags, nil
}

// LibraryNames returns the link names of libvips and its GLib dependencies
func LibraryNames(goos string) []string {
	if goos == "windows" {
		return []string{"libvips", "libglib-2.0", "libgobject-2.0"}
	}
	return []string{"vips", "glib-2.0", "gobject-2.0"}
}

// Directives renders #cgo lines for the library. Without pkg-config link
// flags the libraries are linked by name.
func (l *Library) Directives(goos string) string {
	libs := l.Libs
	if len(libs) == 0 {
		for _, name := range LibraryNames(goos) {
			libs = append(libs, "-l"+name)
		}
	}

	var result strings.Builder
	if len(l.CFlags) > 0 {
		result.WriteString("#cgo CFLAGS: " + joinDirective(l.CFlags) + "\n")
	}
	result.WriteString("#cgo LDFLAGS: " + joinDirective(libs) + "\n")
	return result.String()
}

// joinDirective quotes arguments with blanks, which cgo accepts in double
// quotes
func joinDirective(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			arg = strconv.Quote(arg)
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
