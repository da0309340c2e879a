// cmd/tools/registry-check/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"business-console/pkg/registry"
)

const defaultPath = "configs/resource-registry.json"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("a command is required")
	}

	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validatePath := validateCmd.String("path", defaultPath, "Path to registry file")

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listPath := listCmd.String("path", defaultPath, "Path to registry file")
	tag := listCmd.String("tag", "", "Only list resources carrying this tag")

	payloadCmd := flag.NewFlagSet("payload", flag.ContinueOnError)
	payloadPath := payloadCmd.String("path", defaultPath, "Path to registry file")
	resource := payloadCmd.String("resource", "", "Resource id (e.g., businesses)")
	file := payloadCmd.String("file", "", "JSON payload file, - for stdin")

	for _, fs := range []*flag.FlagSet{validateCmd, listCmd, payloadCmd} {
		fs.SetOutput(out)
	}

	switch args[0] {
	case "validate":
		if err := validateCmd.Parse(args[1:]); err != nil {
			return err
		}
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(out, "Registry validation passed. Found %d resources.\n", len(reg.Resources))
		return nil

	case "list":
		if err := listCmd.Parse(args[1:]); err != nil {
			return err
		}
		reg, err := registry.LoadRegistry(*listPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		list(out, reg, *tag)
		return nil

	case "payload":
		if err := payloadCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *resource == "" || *file == "" {
			payloadCmd.Usage()
			return fmt.Errorf("resource and file are required for payload")
		}
		return checkPayload(out, *payloadPath, *resource, *file)

	case "help":
		help(out)
		return nil
	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func list(out io.Writer, reg *registry.ResourceRegistry, tag string) {
	for _, res := range reg.Resources {
		if tag != "" && !contains(res.Tags, tag) {
			continue
		}
		filters := make([]string, 0, len(res.Filters))
		for _, f := range res.Filters {
			filters = append(filters, f.Name+":"+f.Kind)
		}
		sort.Strings(filters)
		fmt.Fprintf(out, "%-20s %-10s %-22s limit=%-3d filters=[%s]\n",
			res.ID, res.Service, res.Path, res.DefaultLimit, strings.Join(filters, " "))
	}
}

func checkPayload(out io.Writer, path, id, file string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	res, ok := reg.Resource(id)
	if !ok {
		return fmt.Errorf("resource %s not found", id)
	}

	var data []byte
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("payload is not a JSON object: %w", err)
	}
	if err := res.ValidatePayload(doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "Payload is valid for %s.\n", id)
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func help(out io.Writer) {
	fmt.Fprintln(out, `
Usage: registry-check <command> [flags]

Commands:
  validate  Validate the registry file and compile every input schema
  list      Print the resources with their service, path and filters
  payload   Validate a create/update payload against a resource schema
  help      Show this help message

Examples:
  registry-check validate -path configs/resource-registry.json
  registry-check list -tag ledger
  registry-check payload -resource business-admins -file admin.json

Use 'registry-check <command> -h' for more information about a command.`)
}
