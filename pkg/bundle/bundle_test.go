package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-cacao/cacao/pkg/objc"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePrefersRuntimeBundle(t *testing.T) {
	rt := objc.NewFakeRuntime()
	rt.BundleID = "com.example.App"

	got, err := Resolve(rt, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "com.example.App" {
		t.Errorf("ID = %q, want the runtime bundle identifier", got.ID)
	}
}

func TestResolveFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cacao.yaml", "app:\n  name: Editor\n  id: com.acme.editor\n")

	got, err := Resolve(nil, dir)
	if err != nil {
		t.Fatal(err)
	}
	want := Identity{ID: "com.acme.editor", Name: "Editor"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDerivesFromModulePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/acme/editor\n\ngo 1.24.0\n")

	got, err := Resolve(nil, dir)
	if err != nil {
		t.Fatal(err)
	}
	want := Identity{ID: "com.github.acme.editor", Name: "editor"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveWithNothingAvailable(t *testing.T) {
	got, err := Resolve(nil, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "" {
		t.Errorf("expected empty identity, got %q", got.ID)
	}
}

func TestResolveRejectsMalformedManifestID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cacao.yaml", "app:\n  id: \"not valid!\"\n")

	if _, err := Resolve(nil, dir); err == nil {
		t.Error("malformed identifier should be rejected")
	}
}

func TestResolveRejectsMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cacao.yaml", "app: [broken\n")

	if _, err := Resolve(nil, dir); err == nil {
		t.Error("malformed yaml should be rejected")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"com.example.App", "com_example_App"},
		{"com.acme.my-editor", "com_acme_my_editor"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeriveID(t *testing.T) {
	tests := []struct {
		modulePath string
		appName    string
		want       string
	}{
		{"github.com/acme/editor", "editor", "com.github.acme.editor"},
		{"example.org/tool", "tool", "org.example.tool"},
		{"editor", "My Editor", "com.example.my-editor"},
	}
	for _, tt := range tests {
		if got := DeriveID(tt.modulePath, tt.appName); got != tt.want {
			t.Errorf("DeriveID(%q, %q) = %q, want %q", tt.modulePath, tt.appName, got, tt.want)
		}
	}
}
