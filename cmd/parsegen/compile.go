package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/okabe-lang/parsegen/backend"
	"github.com/okabe-lang/parsegen/backend/describe"
	"github.com/okabe-lang/parsegen/grammar"
)

var compileFlags = struct {
	output  *string
	class   *string
	backend *string
	verbose *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a JSON grammar specification into a parsing table",
		Example: `  parsegen compile grammar.json -o grammar.txt`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.class = cmd.Flags().String("class", "lalr1", "table class to emit: lr0, slr1, or lalr1")
	compileFlags.backend = cmd.Flags().String("backend", "describe", "registered backend to invoke")
	compileFlags.verbose = cmd.Flags().BoolP("verbose", "v", false, "log warnings emitted during compilation")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var specPath string
	if len(args) > 0 {
		specPath = args[0]
	}

	spec, err := readSpecification(specPath)
	if err != nil {
		return err
	}

	class, err := parseClass(*compileFlags.class)
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

	if *compileFlags.verbose {
		for _, d := range result.Warnings {
			log.Printf("%v", d)
		}
	}

	reg := backend.NewRegistry()
	reg.Register("describe", &describe.Backend{Writer: outputWriter(*compileFlags.output)})

	b, err := reg.Lookup(*compileFlags.backend)
	if err != nil {
		return err
	}

	return b.Invoke(result.ProcessedSpec, result.ParserTable, nil)
}

func parseClass(name string) (grammar.TableKind, error) {
	switch name {
	case "lr0":
		return grammar.TableKindLR0, nil
	case "slr1":
		return grammar.TableKindSLR1, nil
	case "lalr1":
		return grammar.TableKindLALR1, nil
	default:
		return "", fmt.Errorf("unknown table class %q", name)
	}
}

func readSpecification(path string) (grammar.Specification, error) {
	var r io.Reader
	if path == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return grammar.Specification{}, fmt.Errorf("cannot open specification file %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var spec grammar.Specification
	if err := json.NewDecoder(r).Decode(&spec); err != nil {
		return grammar.Specification{}, fmt.Errorf("cannot parse specification: %w", err)
	}
	return spec, nil
}

func outputWriter(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.Fatalf("cannot open output file %s: %v", path, err)
	}
	return f
}
