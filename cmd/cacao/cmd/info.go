package cmd

import (
	"fmt"

	"github.com/go-cacao/cacao/pkg/bundle"
	"github.com/go-cacao/cacao/pkg/objc"
)

func init() {
	RegisterCommand(&Command{
		Name:  "info",
		Short: "Show the resolved application identity",
		Long: `Show the application identity the bindings will use.

Resolution order: the running bundle's identifier, then cacao.yaml, then a
reverse-DNS identifier derived from go.mod. The sanitized form is the
fragment appended to dynamically registered class names.`,
		Usage: "cacao info",
		Run:   runInfo,
	})
}

func runInfo(args []string) error {
	root, err := bundle.FindProjectRoot()
	if err != nil {
		return fmt.Errorf("not in a Go module (no go.mod found)")
	}

	identity, err := bundle.Resolve(objc.CurrentRuntime(), root)
	if err != nil {
		return fmt.Errorf("failed to resolve identity: %w", err)
	}

	fmt.Printf("Project root:  %s\n", root)
	fmt.Printf("App name:      %s\n", identity.Name)
	if identity.ID == "" {
		fmt.Println("Bundle ID:     (none; class-name disambiguation is skipped)")
		return nil
	}
	fmt.Printf("Bundle ID:     %s\n", identity.ID)
	fmt.Printf("Class suffix:  %s\n", bundle.Sanitize(identity.ID))
	return nil
}
