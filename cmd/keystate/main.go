package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬┌─┌─┐┬ ┬┌─┐┌┬┐┌─┐┌┬┐┌─┐
  ├┴┐├┤ └┬┘└─┐ │ ├─┤ │ ├┤
  ┴ ┴└─┘ ┴ └─┘ ┴ ┴ ┴ ┴ └─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "keystate",
		Short: "Keyed observable state for component-based UIs",
		Long: `keystate is an observable key/value store for UI state.

Named instances hold keyed values with per-key validators, computed
properties, and a synchronous event bus. This CLI runs the development
inspector against a demo registry:

  • Live state snapshots over HTTP
  • Event streaming over WebSocket
  • Store stats and Prometheus metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the keystate ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("\033[36m•\033[0m %s\n", fmt.Sprintf(format, args...))
}
