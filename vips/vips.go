// Package vips is the runtime the generated libvips wrappers call into.
//
// The operation wrappers, their options and enums, the error kinds and the C
// shims are generated from the libvips operation catalog:
//
//	go generate ./vips
package vips

// #cgo pkg-config: vips
// #include "vips.h"
import "C"

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

//go:generate go run github.com/cshum/vipsbindgen/cmd/vipsbindgen generate --out . --introspect "go run github.com/cshum/vipsbindgen/cmd/vips-introspect"

// Version is the libvips version string
var Version = C.GoString(C.vips_version_string())

// Version components
var (
	MajorVersion = int(C.vips_version(0))
	MinorVersion = int(C.vips_version(1))
	MicroVersion = int(C.vips_version(2))
)

// Config tunes libvips at startup. Zero values keep the libvips defaults,
// except cache limits where -1 does.
type Config struct {
	ConcurrencyLevel int
	MaxCacheFiles    int
	MaxCacheMem      int
	MaxCacheSize     int
	ReportLeaks      bool
	CacheTrace       bool
}

var (
	startupOnce  sync.Once
	shutdownOnce sync.Once
	startupErr   error
)

// Startup initializes libvips. Only the first call has any effect.
func Startup(config *Config) error {
	startupOnce.Do(func() {
		name := C.CString(filepath.Base(os.Args[0]))
		defer freeCString(name)

		if C.vipsbindgen_startup(name) != 0 {
			startupErr = lastError(errors.New("vips: failed to start libvips"))
			return
		}
		if config == nil {
			config = &Config{MaxCacheFiles: -1, MaxCacheSize: -1}
		}
		C.vipsbindgen_configure(
			C.int(config.ConcurrencyLevel),
			C.int(config.MaxCacheFiles),
			C.size_t(config.MaxCacheMem),
			C.int(config.MaxCacheSize),
			C.gboolean(boolToInt(config.ReportLeaks)),
			C.gboolean(boolToInt(config.CacheTrace)))
	})
	return startupErr
}

// Shutdown releases libvips. libvips cannot be started again afterwards.
func Shutdown() {
	shutdownOnce.Do(func() {
		C.vips_shutdown()
	})
}

// ErrorBuffer returns and clears the libvips error buffer
func ErrorBuffer() string {
	msg := C.GoString(C.vips_error_buffer())
	C.vips_error_clear()
	return strings.TrimSpace(msg)
}

// HasOperation reports whether the installed libvips provides the named
// operation, e.g. "jxlload"
func HasOperation(name string) bool {
	if name == "" {
		return false
	}
	cName := C.CString(name)
	defer freeCString(cName)
	return C.vipsbindgen_has_operation(cName) != 0
}

// MemoryStats is the libvips allocation tracker
type MemoryStats struct {
	Mem     int64
	MemHigh int64
	Files   int64
	Allocs  int64
}

// ReadVipsMemStats fills stats from the libvips allocation tracker
func ReadVipsMemStats(stats *MemoryStats) {
	stats.Mem = int64(C.vips_tracked_get_mem())
	stats.MemHigh = int64(C.vips_tracked_get_mem_highwater())
	stats.Files = int64(C.vips_tracked_get_files())
	stats.Allocs = int64(C.vips_tracked_get_allocs())
}

// lastError wraps err with the libvips error buffer as detail
func lastError(err error) error {
	return errors.WithDetail(err, ErrorBuffer())
}
