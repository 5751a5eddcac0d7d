package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/okabe-lang/parsegen/backend/describe"
	"github.com/okabe-lang/parsegen/grammar"
)

var describeFlags = struct {
	class *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a description of the compiled parsing table",
		Example: `  parsegen describe grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.class = cmd.Flags().String("class", "lalr1", "table class to describe: lr0, slr1, or lalr1")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	spec, err := readSpecification(args[0])
	if err != nil {
		return err
	}

	class, err := parseClass(*describeFlags.class)
	if err != nil {
		return err
	}

	result, diags, err := grammar.CompileSpecification(spec, grammar.SpecifyClass(class))
	if err != nil {
		for _, d := range diags {
			log.Printf("%v", d)
		}
		return fmt.Errorf("compilation failed: %w", err)
	}
	for _, d := range result.Warnings {
		log.Printf("%v", d)
	}

	b := &describe.Backend{Writer: os.Stdout}
	return b.Invoke(result.ProcessedSpec, result.ParserTable, nil)
}
