package main

import (
	"fmt"
	"runtime"

	"github.com/cshum/vipsbindgen/internal/logger"
	"github.com/cshum/vipsbindgen/internal/pkgconfig"
	"github.com/spf13/cobra"
)

func (a *app) newFlagsCmd() *cobra.Command {
	var goos string
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Print #cgo directives for the installed libvips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := pkgconfig.New(a.cfg.PkgConfig.Package).
				Discover(cmd.Context(), a.cfg.PkgConfig.MinVersion)
			if err != nil {
				return err
			}
			logger.Logger.Infow("Found libvips", "version", lib.Version.String())
			fmt.Fprint(cmd.OutOrStdout(), lib.Directives(goos))
			return nil
		},
	}
	cmd.Flags().StringVar(&goos, "goos", runtime.GOOS, "target operating system")
	return cmd
}
