package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parsegen",
	Short: "Build an LALR(1) parsing table from a JSON grammar specification",
	Long: `parsegen provides two features:
- Compiles a JSON-encoded grammar specification into an LALR(1) parsing table.
- Prints a human-readable description of a compiled table.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
