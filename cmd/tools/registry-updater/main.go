// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"project-workers/internal/workers/catalog"
	"project-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	exportPath := exportCmd.String("path", defaultRegistryPath, "Path to write the registry file")
	checkPath := checkCmd.String("path", defaultRegistryPath, "Path to the registry file")
	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to the registry file")

	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to the registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := exportRegistry(*exportPath); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportPath)

	case "check":
		checkCmd.Parse(os.Args[2:])
		diffs, err := checkRegistry(*checkPath)
		if err != nil {
			fmt.Printf("Error checking registry: %v\n", err)
			os.Exit(1)
		}
		if len(diffs) > 0 {
			fmt.Println("Registry is out of date:")
			for _, d := range diffs {
				fmt.Printf("  %s\n", d)
			}
			fmt.Println("Run 'registry-updater export' to regenerate it.")
			os.Exit(1)
		}
		fmt.Println("Registry is up to date.")

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		if err := reg.Validate(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "help":
		fallthrough
	default:
		help()
	}
}

// exportRegistry writes the registry built from the compiled-in workers.
func exportRegistry(path string) error {
	reg := catalog.Registry()
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("built-in registry invalid: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return reg.Save(path)
}

// checkRegistry compares the file at path with the compiled-in workers.
func checkRegistry(path string) ([]string, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg.Diff(catalog.Registry()), nil
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Activities {
		if reg.Activities[i].ID != id {
			continue
		}
		found = true
		switch field {
		case "status":
			reg.Activities[i].ImplementationStatus = value
		case "version":
			reg.Activities[i].Version = value
		case "displayName":
			reg.Activities[i].DisplayName = value
		case "description":
			reg.Activities[i].Description = value
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout value: %w", err)
			}
			reg.Activities[i].Timeout = value
		case "retries":
			retries, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid retries value: %w", err)
			}
			reg.Activities[i].Retries = retries
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  export    Write the registry for the compiled-in workers
  check     Report differences between the registry file and the compiled-in workers
  update    Update an existing activity's field
  validate  Validate the registry file
  help      Show this help message

Examples:
  registry-updater export -path configs/activity-registry.json
  registry-updater check
  registry-updater update -id notify-suggested-employees -field status -value verified
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`, "\n")
}
