package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-cacao/cacao/pkg/bundle"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Write a cacao.yaml manifest for the current module",
		Long: `Write a cacao.yaml manifest in the project root.

The application name and bundle identifier are derived from the module path
in go.mod; edit the manifest to override either. The identifier is what
disambiguates dynamically registered class names when the binary runs
outside an app bundle.

Examples:
  cacao init
  cacao init ./apps/editor`,
		Usage: "cacao init [directory]",
		Run:   runInit,
	})
}

func runInit(args []string) error {
	var root string
	var err error
	if len(args) > 0 {
		root = filepath.Clean(args[0])
	} else {
		root, err = bundle.FindProjectRoot()
		if err != nil {
			return fmt.Errorf("not in a Go module (no go.mod found)")
		}
	}

	manifestPath := filepath.Join(root, "cacao.yaml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("%s already exists", manifestPath)
	}

	identity, err := bundle.Resolve(nil, root)
	if err != nil {
		return fmt.Errorf("failed to resolve identity: %w", err)
	}
	if identity.ID == "" {
		return fmt.Errorf("could not derive a bundle identifier; is there a go.mod in %s?", root)
	}

	manifest := fmt.Sprintf("app:\n  name: %s\n  id: %s\n", identity.Name, identity.ID)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		return fmt.Errorf("failed to write cacao.yaml: %w", err)
	}

	fmt.Printf("Wrote %s\n", manifestPath)
	fmt.Printf("  name: %s\n  id:   %s\n", identity.Name, identity.ID)
	return nil
}
