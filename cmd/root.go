package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gtasks-mcp application
var rootCmd = &cobra.Command{
	Use:   "gtasks-mcp",
	Short: "MCP server for Google Tasks",
	Long: `gtasks-mcp exposes Google Tasks to AI assistants over the Model Context
Protocol. Besides plain task and task list management it can move tasks
between lists, reorganize tasks by "[PREFIX]" title routing and run batches
of operations with per-element results.

It can run as:
  - An MCP server over stdio or streamable HTTP (default: serve)
  - A one-shot CLI for reorganizing tasks`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gtasks-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, serve over stdio
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReorganizeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
