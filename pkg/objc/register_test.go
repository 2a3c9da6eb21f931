package objc

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/go-cacao/cacao/pkg/errors"
)

func quietErrors(t *testing.T) {
	t.Helper()
	prev := errors.DefaultHandler
	errors.SetHandler(silenceReports{})
	t.Cleanup(func() { errors.SetHandler(prev) })
}

func TestLoadOrRegisterIdempotent(t *testing.T) {
	rt := NewFakeRuntime()
	rt.AddClass("NSViewController", 0)
	r := NewRegistrar(rt)

	calls := 0
	configure := func(decl *ClassDecl) {
		calls++
		decl.AddPointerIvar("cacaoControllerPtr")
	}

	first, err := r.LoadOrRegister("NSViewController", "MyController", configure)
	if err != nil {
		t.Fatalf("first LoadOrRegister failed: %v", err)
	}
	second, err := r.LoadOrRegister("NSViewController", "MyController", configure)
	if err != nil {
		t.Fatalf("second LoadOrRegister failed: %v", err)
	}

	if first != second {
		t.Errorf("handles differ across calls: %#x vs %#x", first, second)
	}
	if calls != 1 {
		t.Errorf("declaration callback ran %d times, want 1", calls)
	}
	if len(rt.Registered) != 1 {
		t.Errorf("runtime saw %d registrations, want 1", len(rt.Registered))
	}
}

func TestLoadOrRegisterMissingSuperclass(t *testing.T) {
	quietErrors(t)
	r := NewRegistrar(NewFakeRuntime())

	_, err := r.LoadOrRegister("NSNotAClass", "MyController", nil)
	if err == nil {
		t.Fatal("expected an error for a missing superclass")
	}
	var cerr *errors.Error
	if !stderrors.As(err, &cerr) {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if cerr.Kind != errors.KindConfig || !cerr.IsFatal() {
		t.Errorf("missing superclass must be the fatal tier, got kind %v", cerr.Kind)
	}
	if !strings.Contains(cerr.Error(), "NSNotAClass") {
		t.Errorf("error should name the missing superclass: %v", cerr)
	}
}

func TestLoadOrRegisterRegistrationFailure(t *testing.T) {
	quietErrors(t)
	rt := NewFakeRuntime()
	rt.AddClass("NSViewController", 0)
	rt.RegisterErr = stderrors.New("allocation failed")
	r := NewRegistrar(rt)

	_, err := r.LoadOrRegister("NSViewController", "MyController", nil)
	if err == nil {
		t.Fatal("expected an error when class-pair allocation fails")
	}
	var cerr *errors.Error
	if !stderrors.As(err, &cerr) || cerr.Kind != errors.KindConfig {
		t.Fatalf("registration failure must be KindConfig, got %v", err)
	}
	for _, name := range []string{"MyController", "NSViewController"} {
		if !strings.Contains(cerr.Error(), name) {
			t.Errorf("error should name %s: %v", name, cerr)
		}
	}
}

func TestLoadOrRegisterNoRuntime(t *testing.T) {
	quietErrors(t)
	r := NewRegistrar(nil)

	if _, err := r.LoadOrRegister("NSViewController", "MyController", nil); err == nil {
		t.Fatal("expected an error with no runtime installed")
	}
}

func TestMustLoadOrRegisterPanics(t *testing.T) {
	quietErrors(t)
	r := NewRegistrar(NewFakeRuntime())

	defer func() {
		if recover() == nil {
			t.Error("MustLoadOrRegister should panic on a missing superclass")
		}
	}()
	r.MustLoadOrRegister("NSNotAClass", "MyController", nil)
}

func TestRuntimeNameWithBundleID(t *testing.T) {
	rt := NewFakeRuntime()
	rt.BundleID = "com.example.App"
	rt.AddClass("NSViewController", 0)
	r := NewRegistrar(rt)

	if _, err := r.LoadOrRegister("NSViewController", "MyController", nil); err != nil {
		t.Fatal(err)
	}

	if len(rt.Registered) != 1 {
		t.Fatalf("expected one registration, got %d", len(rt.Registered))
	}
	name := rt.Registered[0]
	if name != "MyController_NSViewController_com_example_App" {
		t.Errorf("synthesized name = %q", name)
	}
	if strings.ContainsAny(name, ".-") {
		t.Errorf("synthesized name %q must not contain '.' or '-'", name)
	}
}

func TestRuntimeNameWithoutBundleID(t *testing.T) {
	rt := NewFakeRuntime()
	rt.AddClass("NSViewController", 0)
	r := NewRegistrar(rt)

	if _, err := r.LoadOrRegister("NSViewController", "MyController", nil); err != nil {
		t.Fatal(err)
	}

	if got, want := rt.Registered[0], "MyController_NSViewController"; got != want {
		t.Errorf("synthesized name = %q, want two-part %q", got, want)
	}
}

func TestSanitizeBundleID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"com.example.App", "com_example_App"},
		{"com.example.my-app", "com_example_my_app"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeBundleID(tt.in); got != tt.want {
			t.Errorf("sanitizeBundleID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistrationVisibleToPlainLookup(t *testing.T) {
	rt := NewFakeRuntime()
	rt.AddClass("NSViewController", 0)
	r := NewRegistrar(rt)

	sub, err := r.LoadOrRegister("NSViewController", "MyController", nil)
	if err != nil {
		t.Fatal(err)
	}

	// The cache keys the subclass under (sub, super); a plain (sub, "")
	// lookup is an independent entry that resolves through the runtime
	// fallback under the synthesized name, not the logical one.
	if _, ok := r.Classes().Load("MyController", ""); ok {
		t.Error(`plain Load("MyController","") must not alias the subclass entry`)
	}

	again, ok := r.Classes().Load("MyController", "NSViewController")
	if !ok || again != sub {
		t.Errorf("subclass entry lost: (%#x, %v)", again, ok)
	}
}

func TestSetRuntimeAfterFirstUse(t *testing.T) {
	quietErrors(t)
	ResetForTest()
	t.Cleanup(ResetForTest)

	// First use with no runtime installed fails and snapshots nothing.
	if _, err := LoadOrRegister("NSViewController", "MyController", nil); err == nil {
		t.Fatal("expected an error before a runtime is installed")
	}

	rt := NewFakeRuntime()
	rt.AddClass("NSViewController", 0)
	SetRuntime(rt)

	cls, err := LoadOrRegister("NSViewController", "MyController", nil)
	if err != nil {
		t.Fatalf("LoadOrRegister after late SetRuntime failed: %v", err)
	}
	if cls == 0 {
		t.Error("registration through the late-installed runtime returned a zero class")
	}
	if DefaultRegistrar().Runtime() != Runtime(rt) {
		t.Error("default registrar is not using the installed runtime")
	}
}

func TestDefaultRegistrarSingleton(t *testing.T) {
	rt := SetupTestRuntime(t.Cleanup)
	rt.AddClass("NSViewController", 0)

	if DefaultRegistrar() != DefaultRegistrar() {
		t.Error("DefaultRegistrar should return the same instance")
	}

	cls, err := LoadOrRegister("NSViewController", "MyController", nil)
	if err != nil {
		t.Fatal(err)
	}
	again, err := LoadOrRegister("NSViewController", "MyController", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cls != again {
		t.Errorf("package-level LoadOrRegister not idempotent: %#x vs %#x", cls, again)
	}
}
