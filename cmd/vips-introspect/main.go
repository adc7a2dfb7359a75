// Command vips-introspect prints the operation catalog of the installed
// libvips in the dump format vipsbindgen parses.
package main

// #cgo pkg-config: vips
// #include "introspect.h"
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/cockroachdb/errors"
)

func initVips(programName string) error {
	cProgramName := C.CString(programName)
	defer C.free(unsafe.Pointer(cProgramName))

	if C.vips_init(cProgramName) != 0 {
		msg := C.GoString(C.vips_error_buffer())
		return errors.WithDetail(errors.New("vips_init failed"), msg)
	}
	return nil
}

func run() error {
	if err := initVips(filepath.Base(os.Args[0])); err != nil {
		return err
	}
	defer C.vips_shutdown()

	if C.dump_catalog() == 0 {
		return errors.New("no operations found")
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if details := errors.FlattenDetails(err); details != "" {
			fmt.Fprintln(os.Stderr, details)
		}
		os.Exit(1)
	}
}
