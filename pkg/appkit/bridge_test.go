package appkit

import (
	"testing"

	"github.com/go-cacao/cacao/pkg/errors"
	"github.com/go-cacao/cacao/pkg/objc"
)

// silenceReports swallows reported errors for the duration of a test.
type silenceReports struct{}

func (silenceReports) HandleError(*errors.Error)      {}
func (silenceReports) HandlePanic(*errors.PanicError) {}

func quietErrors(t *testing.T) {
	t.Helper()
	prev := errors.DefaultHandler
	errors.SetHandler(silenceReports{})
	t.Cleanup(func() { errors.SetHandler(prev) })
}

// testController records lifecycle callbacks.
type testController struct {
	didLoad int
	handle  *ViewHandle
}

func (c *testController) DidLoad(view *ViewHandle) {
	c.didLoad++
	c.handle = view
}

func TestBindInvokesDidLoadOnce(t *testing.T) {
	SetupTest(t.Cleanup)

	controller := &testController{}
	handle, err := Bind(controller)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if controller.didLoad != 1 {
		t.Errorf("DidLoad ran %d times, want 1", controller.didLoad)
	}
	if controller.handle != handle {
		t.Error("DidLoad should receive the handle being returned")
	}
	if handle.Object() == 0 {
		t.Error("handle should wrap a live native instance")
	}
}

func TestBindStoresTokenOnControllerAndView(t *testing.T) {
	rt, _ := SetupTest(t.Cleanup)

	controller := &testController{}
	handle, err := Bind(controller)
	if err != nil {
		t.Fatal(err)
	}

	objToken, err := rt.Ivar(handle.Object(), ControllerPtrIvar)
	if err != nil {
		t.Fatalf("controller instance has no ivar slot: %v", err)
	}
	if objToken == 0 {
		t.Fatal("controller instance ivar should hold the token")
	}

	if handle.View() == 0 {
		t.Fatal("view-backed controller should have an associated view")
	}
	viewToken, err := rt.Ivar(handle.View(), ControllerPtrIvar)
	if err != nil {
		t.Fatalf("view instance has no ivar slot: %v", err)
	}
	if viewToken != objToken {
		t.Errorf("view token %#x differs from controller token %#x", viewToken, objToken)
	}
}

func TestControllerRecovery(t *testing.T) {
	rt, _ := SetupTest(t.Cleanup)

	controller := &testController{}
	handle, err := Bind(controller)
	if err != nil {
		t.Fatal(err)
	}

	for _, obj := range []objc.Object{handle.Object(), handle.View()} {
		got, ok := ControllerFromObject(rt, obj)
		if !ok {
			t.Fatalf("ControllerFromObject(%#x) found nothing", obj)
		}
		if got != controller {
			t.Errorf("recovered a different controller from %#x", obj)
		}
	}
}

func TestBindRegistersSubclassOnce(t *testing.T) {
	rt, _ := SetupTest(t.Cleanup)

	a, err := Bind(&testController{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Bind(&testController{})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Dispose()
	defer b.Dispose()

	if len(rt.Registered) != 1 {
		t.Errorf("two binds of the same type registered %d classes, want 1", len(rt.Registered))
	}
	if got, want := rt.Registered[0], "testController_NSViewController"; got != want {
		t.Errorf("registered runtime name %q, want %q", got, want)
	}
}

func TestBindNilController(t *testing.T) {
	SetupTest(t.Cleanup)
	if _, err := Bind(nil); err == nil {
		t.Error("Bind(nil) should fail")
	}
}

func TestBindMissingSuperclass(t *testing.T) {
	quietErrors(t)
	rt := objc.SetupTestRuntime(t.Cleanup)
	_ = rt // NSViewController deliberately not seeded
	t.Cleanup(ResetForTest)

	_, err := Bind(&testController{})
	if err == nil {
		t.Fatal("expected a fatal configuration error")
	}
	cerr, ok := err.(*errors.Error)
	if !ok || cerr.Kind != errors.KindConfig {
		t.Errorf("missing superclass should surface as KindConfig, got %v", err)
	}
}

func TestDisposeReclaimsExactlyOnce(t *testing.T) {
	rt, _ := SetupTest(t.Cleanup)

	base := objc.HandleCount()
	controller := &testController{}
	handle, err := Bind(controller)
	if err != nil {
		t.Fatal(err)
	}
	if objc.HandleCount() != base+1 {
		t.Fatalf("bind should create exactly one extra controller reference")
	}
	obj := handle.Object()

	handle.Dispose()

	if objc.HandleCount() != base {
		t.Error("dispose should reclaim the controller reference")
	}
	if rt.RefCount(obj) != 0 {
		t.Errorf("native instance refcount = %d after dispose, want 0", rt.RefCount(obj))
	}
	if handle.Object() != 0 {
		t.Error("disposed handle should be empty")
	}

	// Second dispose must be a no-op, not a second reclaim.
	releases := rt.Releases
	handle.Dispose()
	if objc.HandleCount() != base {
		t.Error("double dispose changed the handle table")
	}
	if rt.Releases != releases {
		t.Error("double dispose released the instance again")
	}
}

func TestBindBalance(t *testing.T) {
	rt, _ := SetupTest(t.Cleanup)

	const n = 50
	base := objc.HandleCount()

	handles := make([]*ViewHandle, 0, n)
	for i := 0; i < n; i++ {
		h, err := Bind(&testController{})
		if err != nil {
			t.Fatal(err)
		}
		handles = append(handles, h)
	}
	if objc.HandleCount() != base+n {
		t.Fatalf("expected %d live controller references, got %d", base+n, objc.HandleCount())
	}

	for _, h := range handles {
		h.Dispose()
	}

	if objc.HandleCount() != base {
		t.Errorf("controller references did not return to baseline: %d vs %d", objc.HandleCount(), base)
	}
	if rt.Retains != 0 {
		t.Errorf("bridge should not add retains beyond allocation ownership, saw %d", rt.Retains)
	}
	if rt.Releases != n {
		t.Errorf("expected %d releases, got %d", n, rt.Releases)
	}
}

func TestRecoveryFailsAfterDispose(t *testing.T) {
	rt, _ := SetupTest(t.Cleanup)

	controller := &testController{}
	handle, err := Bind(controller)
	if err != nil {
		t.Fatal(err)
	}
	obj := handle.Object()
	view := handle.View()

	handle.Dispose()

	if _, ok := ControllerFromObject(rt, obj); ok {
		t.Error("controller must not be recoverable after dispose")
	}
	if _, ok := ControllerFromObject(rt, view); ok {
		t.Error("controller must not be recoverable from the view after dispose")
	}
}
