package appkit

import (
	"sync"

	"github.com/go-cacao/cacao/pkg/objc"
)

// Native is the AppKit/WebKit surface the wrappers forward to. It covers
// the handful of calls that cannot be expressed through raw runtime
// primitives (view association, attribute setters, WebKit construction).
// All calls are only valid on the UI thread.
//
// On darwin the bindings install a cgo-backed implementation at startup;
// tests install fakes. When no Native is installed, wrapper operations
// become no-ops so call sites can operate on not-yet-configured handles.
type Native interface {
	// ViewOf returns the view associated with a view controller instance.
	ViewOf(controller objc.Object) (objc.Object, bool)

	// SetViewOf installs view as the controller instance's view.
	SetViewOf(controller, view objc.Object) error

	// SetBackgroundColor sets the view's background color.
	SetBackgroundColor(view objc.Object, color Color) error

	// RegisterDraggedTypes registers the pasteboard type identifiers the
	// view accepts in drag-and-drop operations.
	RegisterDraggedTypes(view objc.Object, types []string) error

	// NewWebView allocates a WKWebView configured per config.
	NewWebView(config WebViewConfig) (objc.Object, error)
}

var (
	nativeMu sync.RWMutex
	native   Native
)

// SetNative installs the process AppKit surface. Called once during startup
// on darwin, or by tests installing a fake.
func SetNative(n Native) {
	nativeMu.Lock()
	native = n
	nativeMu.Unlock()
}

// currentNative returns the installed surface, or nil.
func currentNative() Native {
	nativeMu.RLock()
	n := native
	nativeMu.RUnlock()
	return n
}

// ResetForTest clears the installed AppKit surface and dispatch function so
// the package behaves as if freshly initialized. This should only be called
// from tests.
func ResetForTest() {
	SetNative(nil)

	dispatchMu.Lock()
	dispatchFunc = nil
	dispatchMu.Unlock()
}
