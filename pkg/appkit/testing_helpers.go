package appkit

import (
	"sync"

	"github.com/go-cacao/cacao/pkg/objc"
)

// FakeNative is an in-memory AppKit surface for tests. View controllers get
// lazily created backing views (instances of the same registered subclass,
// so they carry the hidden ivar slot), and attribute calls are recorded for
// assertions.
type FakeNative struct {
	rt *objc.FakeRuntime
	mu sync.Mutex

	views       map[objc.Object]objc.Object
	controllers map[objc.Object]objc.Object
	configs     map[objc.Object]WebViewConfig

	// Backgrounds records the last color set per view.
	Backgrounds map[objc.Object]Color

	// DraggedTypes records the last registered type identifiers per view.
	DraggedTypes map[objc.Object][]string

	// WebViewConfigs records the configs passed to NewWebView, in order.
	WebViewConfigs []WebViewConfig

	// WebViewErr, when set, makes NewWebView fail.
	WebViewErr error
}

// NewFakeNative returns a FakeNative sharing state with rt.
func NewFakeNative(rt *objc.FakeRuntime) *FakeNative {
	return &FakeNative{
		rt:           rt,
		views:        make(map[objc.Object]objc.Object),
		controllers:  make(map[objc.Object]objc.Object),
		configs:      make(map[objc.Object]WebViewConfig),
		Backgrounds:  make(map[objc.Object]Color),
		DraggedTypes: make(map[objc.Object][]string),
	}
}

func (f *FakeNative) ViewOf(controller objc.Object) (objc.Object, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if view, ok := f.views[controller]; ok {
		return view, true
	}
	cls := f.rt.ClassOf(controller)
	if cls == 0 {
		return 0, false
	}
	view, err := f.rt.NewObject(cls)
	if err != nil {
		return 0, false
	}
	f.views[controller] = view
	return view, true
}

func (f *FakeNative) SetViewOf(controller, view objc.Object) error {
	f.mu.Lock()
	f.views[controller] = view
	f.controllers[view] = controller
	f.mu.Unlock()
	return nil
}

func (f *FakeNative) SetBackgroundColor(view objc.Object, color Color) error {
	f.mu.Lock()
	f.Backgrounds[view] = color
	f.mu.Unlock()
	return nil
}

func (f *FakeNative) RegisterDraggedTypes(view objc.Object, types []string) error {
	f.mu.Lock()
	f.DraggedTypes[view] = types
	f.mu.Unlock()
	return nil
}

func (f *FakeNative) NewWebView(config WebViewConfig) (objc.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WebViewErr != nil {
		return 0, f.WebViewErr
	}
	f.WebViewConfigs = append(f.WebViewConfigs, config)
	cls, ok := f.rt.LookupClass("WKWebView")
	if !ok {
		cls = f.rt.AddClass("WKWebView", 0)
	}
	webView, err := f.rt.NewObject(cls)
	if err != nil {
		return 0, err
	}
	f.configs[webView] = config
	return webView, nil
}

// PostScriptMessage delivers a script message to the controller whose web
// view this is, the way page content posting to window.webkit.messageHandlers
// would. Names outside the web view's configured MessageHandlers are dropped,
// matching WebKit, which only exposes registered handler names to scripts.
func (f *FakeNative) PostScriptMessage(webView objc.Object, name, body string) {
	f.mu.Lock()
	config, configured := f.configs[webView]
	controller := f.controllers[webView]
	f.mu.Unlock()

	if !configured {
		return
	}
	registered := false
	for _, handler := range config.MessageHandlers {
		if handler == name {
			registered = true
			break
		}
	}
	if !registered {
		return
	}
	DispatchScriptMessage(f.rt, controller, name, body)
}

// SetupTest installs a fresh fake runtime and AppKit surface, seeds the
// NSViewController base class, and registers teardowns. The cleanup
// function should be testing.T.Cleanup or equivalent:
//
//	rt, native := appkit.SetupTest(t.Cleanup)
func SetupTest(cleanup func(func())) (*objc.FakeRuntime, *FakeNative) {
	rt := objc.SetupTestRuntime(cleanup)
	rt.AddClass(ViewControllerClass, 0)

	n := NewFakeNative(rt)
	SetNative(n)
	RegisterDispatch(func(cb func()) { cb() })
	cleanup(ResetForTest)
	return rt, n
}
