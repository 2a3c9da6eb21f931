// Package bundle resolves the application's bundle identity. The identity
// disambiguates dynamically registered class names across bundles sharing a
// process; it comes from the running bundle when there is one, and falls
// back to the cacao.yaml manifest or the Go module path during development,
// when the binary runs outside a bundle.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-cacao/cacao/pkg/objc"
)

// Manifest represents the optional cacao.yaml configuration.
type Manifest struct {
	App AppManifest `yaml:"app"`
}

// AppManifest contains application metadata.
type AppManifest struct {
	Name string `yaml:"name,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// Identity is the resolved application identity. ID may be empty, in which
// case class-name disambiguation is skipped.
type Identity struct {
	ID   string
	Name string
}

// LoadManifest reads cacao.yaml from dir if present. A missing file is not
// an error; a malformed one is.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "cacao.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read cacao.yaml: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse cacao.yaml: %w", err)
	}
	return &m, nil
}

// Resolve determines the application identity. Order: the running bundle's
// identifier (when rt is available and the process runs inside a bundle),
// then the cacao.yaml manifest in dir, then an identifier derived from the
// Go module path. An empty Identity with a nil error means the process has
// no resolvable identity, which callers treat as "skip disambiguation".
func Resolve(rt objc.Runtime, dir string) (Identity, error) {
	if rt != nil {
		if id, ok := rt.BundleIdentifier(); ok {
			return Identity{ID: id, Name: filepath.Base(dir)}, nil
		}
	}

	m, err := LoadManifest(dir)
	if err != nil {
		return Identity{}, err
	}

	name := strings.TrimSpace(m.App.Name)
	id := strings.TrimSpace(m.App.ID)

	modulePath, modErr := modulePath(dir)
	if name == "" {
		name = defaultAppName(modulePath, dir)
	}
	if id == "" {
		if modErr != nil {
			// No manifest identity and no module to derive one from.
			return Identity{Name: name}, nil
		}
		id = DeriveID(modulePath, name)
	}

	if err := validateID(id); err != nil {
		return Identity{}, err
	}
	return Identity{ID: id, Name: name}, nil
}

// Sanitize rewrites a bundle identifier into a legal class name fragment:
// dots and hyphens become underscores.
func Sanitize(id string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(id)
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	modName, _, ok := module.SplitPathVersion(modulePath)
	if ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." {
		return "cacao_app"
	}
	return base
}

// DeriveID builds a reverse-DNS identifier from a Go module path:
// "github.com/acme/editor" becomes "com.github.acme.editor".
func DeriveID(modulePath, appName string) string {
	parts := strings.Split(modulePath, "/")
	if len(parts) < 2 || !strings.Contains(parts[0], ".") {
		return fmt.Sprintf("com.example.%s", sanitizeSegment(appName))
	}

	host := strings.Split(parts[0], ".")
	for i, j := 0, len(host)-1; i < j; i, j = i+1, j-1 {
		host[i], host[j] = host[j], host[i]
	}

	segments := append([]string{}, host...)
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		segments = append(segments, sanitizeSegment(p))
	}
	return strings.Join(segments, ".")
}

var segmentCleaner = regexp.MustCompile(`[^a-zA-Z0-9-]`)

func sanitizeSegment(s string) string {
	s = segmentCleaner.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "app"
	}
	return s
}

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+$`)

func validateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid bundle identifier %q (want reverse-DNS form like com.example.app)", id)
	}
	return nil
}
