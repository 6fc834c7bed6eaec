package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vgren/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon a dev server plugin loads gren modules from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			watch, _ := cmd.Flags().GetBool("watch")

			return c.app.Serve(cmd.Context(), app.ServeOptions{
				Socket: socket,
				Watch:  watch,
			})
		},
	}
	cmd.Flags().String("socket", "", "Unix socket to listen on")
	cmd.Flags().BoolP("watch", "w", false, "Log the modules invalidated by saved sources")
	return cmd
}

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			return c.app.Status(cmd.Context(), socket)
		},
	}
	cmd.Flags().String("socket", "", "Unix socket of the daemon")
	return cmd
}

func (c *CLI) newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			return c.app.Stop(cmd.Context(), socket)
		},
	}
	cmd.Flags().String("socket", "", "Unix socket of the daemon")
	return cmd
}
