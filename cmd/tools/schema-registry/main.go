// cmd/tools/schema-registry/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"childcare-assistant/internal/models"
	validateoutput "childcare-assistant/internal/workers/assistant/validate-output"
	"childcare-assistant/pkg/registry"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)

	validatePath := validateCmd.String("path", "", "Path to registry file (empty: built-in registry)")
	listPath := listCmd.String("path", "", "Path to registry file (empty: built-in registry)")
	checkPath := checkCmd.String("path", "", "Path to registry file (empty: built-in registry)")
	intent := checkCmd.String("intent", "", "Intent whose schema the output must satisfy (e.g., COST)")
	outputFile := checkCmd.String("file", "", "File holding raw model output ('-' for stdin)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		err = validateRegistry(os.Stdout, *validatePath)

	case "list":
		listCmd.Parse(os.Args[2:])
		err = listIntents(os.Stdout, *listPath)

	case "check":
		checkCmd.Parse(os.Args[2:])
		if *intent == "" || *outputFile == "" {
			fmt.Println("Error: intent and file are required for check.")
			checkCmd.Usage()
			os.Exit(1)
		}
		var raw []byte
		if *outputFile == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(*outputFile)
		}
		if err == nil {
			err = checkOutput(os.Stdout, *checkPath, *intent, string(raw))
		}

	case "help":
		fallthrough
	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// validateRegistry compiles every entry and checks that each intent it
// names is one the classifier can produce.
func validateRegistry(w io.Writer, path string) error {
	reg, err := registry.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	intents := reg.Intents()
	if len(intents) == 0 {
		return fmt.Errorf("registry contains no intents")
	}
	for _, name := range intents {
		if _, ok := models.ParseIntent(name); !ok {
			return fmt.Errorf("registry entry %s is not a known intent", name)
		}
	}

	fmt.Fprintf(w, "Registry validation passed. Found %d intents (version %s).\n", len(intents), reg.Version)
	return nil
}

func listIntents(w io.Writer, path string) error {
	reg, err := registry.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, name := range reg.Intents() {
		entry, _ := reg.Lookup(name)
		fmt.Fprintf(w, "%-18s %s\n", name, entry.Description)
	}
	return nil
}

// checkOutput runs raw model output through the same repair, canonicalize
// and validate steps the answer pipeline uses.
func checkOutput(w io.Writer, path, intent, raw string) error {
	reg, err := registry.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	parsed, ok := models.ParseIntent(strings.ToUpper(intent))
	if !ok {
		return fmt.Errorf("unknown intent %q", intent)
	}

	res, err := validateoutput.NewValidator(reg).Validate(parsed, raw)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("%s: %s", res.ErrorKind, res.Error)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: schema-registry <command> [flags]

Commands:
  validate  Compile every schema in the registry
  list      List the intents that carry a schema
  check     Validate a model output file against an intent's schema
  help      Show this help message

Examples:
  schema-registry validate -path configs/schema-registry.json
  schema-registry list
  schema-registry check -intent COST -file output.json

Use 'schema-registry <command> -h' for more information about a command.
`)
}
