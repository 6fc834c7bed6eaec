package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vgren/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <module-id>",
		Short: "Compile a gren module and print the resulting JavaScript module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			moduleIDs, _ := cmd.Flags().GetStringArray("module-id")
			watchFiles, _ := cmd.Flags().GetBool("watch-files")

			return c.app.Compile(cmd.Context(), args[0], app.CompileOptions{
				ModuleIDs:  moduleIDs,
				WatchFiles: watchFiles,
			})
		},
	}
	cmd.Flags().StringArray("module-id", nil, "Host module loaded before this one, used to resolve accompanies (repeatable)")
	cmd.Flags().Bool("watch-files", false, "Print the files to watch instead of the module body")
	return cmd
}

func (c *CLI) newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <file>...",
		Short: "List the local gren sources a file depends on",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Deps(cmd.Context(), args)
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <module-id>...",
		Short: "Compile modules and recompile them whenever a source they depend on changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			return c.app.Watch(cmd.Context(), args)
		},
	}
}
