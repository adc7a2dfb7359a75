package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/config"
	"github.com/cshum/vipsbindgen/internal/generator"
	"github.com/cshum/vipsbindgen/internal/templates"
	"github.com/spf13/cobra"
)

func (a *app) newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the artifact templates",
	}

	var dir string
	extract := &cobra.Command{
		Use:   "extract",
		Short: "Extract the embedded templates for customization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := generator.ExtractEmbeddedFS(templates.Templates, dir)
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}
			return nil
		},
	}
	extract.Flags().StringVar(&dir, "dir", "./templates", "destination directory")
	cmd.AddCommand(extract)
	return cmd
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.WithHint(errors.Newf("%s already exists", path), "pass --force to overwrite")
			}

			f, err := os.Create(path)
			if err != nil {
				return errors.Wrap(err, "failed to create config file")
			}
			if err := config.WriteTOML(f, config.Default()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrap(err, "failed to write config file")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
