package main

import (
	"fmt"
	"strconv"

	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) newParseCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the parsed operation catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.loadOperations(cmd.Context())
			if err != nil {
				return err
			}
			return introspection.Dump(cmd.OutOrStdout(), ops, as)
		},
	}
	cmd.Flags().StringVar(&as, "as", "yaml", "output format: yaml or json")
	return cmd
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog operations and whether they are generated",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.loadOperations(cmd.Context())
			if err != nil {
				return err
			}
			gen := a.cfg.GeneratorConfig()

			var data [][]string
			for _, op := range ops {
				status := "generated"
				if gen.Blocked(op) {
					status = "blocked"
				}
				data = append(data, []string{
					op.Name,
					op.GoName(),
					op.NativeGroup,
					strconv.Itoa(len(op.Required)),
					strconv.Itoa(len(op.Optional)),
					strconv.Itoa(len(op.Output)),
					status,
				})
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"NAME", "GO NAME", "GROUP", "REQUIRED", "OPTIONAL", "OUTPUTS", "STATUS"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			table.AppendBulk(data)
			table.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d operations\n", len(ops))
			return nil
		},
	}
}
