package appkit

import (
	"fmt"

	"github.com/go-cacao/cacao/pkg/errors"
	"github.com/go-cacao/cacao/pkg/objc"
)

// WebViewConfig configures the WKWebView backing a web view controller.
// The zero value is a plain web view with JavaScript enabled.
type WebViewConfig struct {
	// UserAgent overrides the default user agent string when non-empty.
	UserAgent string

	// DisableJavaScript turns script execution off.
	DisableJavaScript bool

	// MessageHandlers are the script message handler names exposed to page
	// content. Messages posted to them are delivered through
	// DispatchScriptMessage to the controller's OnScriptMessage hook;
	// controllers that want them implement ScriptMessageHandler.
	MessageHandlers []string
}

// WebViewController is the lifecycle contract for a bridged web view
// controller. Config is consulted once, before the WKWebView is allocated.
type WebViewController interface {
	ViewController
	Config() WebViewConfig
}

// ScriptMessageHandler is implemented by web view controllers that consume
// messages page content posts to the configured handler names.
type ScriptMessageHandler interface {
	// OnScriptMessage receives one posted message: the handler name it was
	// posted to and the message body. UI thread only.
	OnScriptMessage(name, body string)
}

// DispatchScriptMessage delivers a script message to the controller bound to
// obj, the view controller instance carrying the controller token. The
// native surface calls this from its script-message trampoline. Messages for
// controllers that do not implement ScriptMessageHandler are dropped;
// messages for instances with no recoverable controller (never bound, or
// already disposed) are reported and dropped.
func DispatchScriptMessage(rt objc.Runtime, obj objc.Object, name, body string) {
	controller, ok := ControllerFromObject(rt, obj)
	if !ok {
		errors.Report(&errors.Error{
			Op:   "appkit.DispatchScriptMessage",
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("script message %q arrived for an unbound instance %#x", name, uintptr(obj)),
		})
		return
	}
	if h, ok := controller.(ScriptMessageHandler); ok {
		h.OnScriptMessage(name, body)
	}
}

// BindWebView associates controller with a native view controller whose view
// is a freshly configured WKWebView. WKWebView is not worth subclassing, so
// the web view itself is plain; the dynamic subclass wraps the view
// controller, and the controller token is stored on that instance only. The
// controller's DidLoad hook runs exactly once before the handle is returned.
//
// The returned handle follows the same teardown contract as BindWith.
// UI thread only.
func BindWebView(controller WebViewController) (*ViewHandle, error) {
	return BindWebViewWith(objc.DefaultRegistrar(), controller)
}

// BindWebViewWith is BindWebView against an explicit registrar.
func BindWebViewWith(reg *objc.Registrar, controller WebViewController) (*ViewHandle, error) {
	const op = "appkit.BindWebView"

	if controller == nil {
		return nil, &errors.Error{
			Op:   op,
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("nil controller"),
		}
	}

	n := currentNative()
	if n == nil {
		err := &errors.Error{
			Op:   op,
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("no AppKit surface installed; cannot allocate WKWebView"),
		}
		errors.Report(err)
		return nil, err
	}

	cls, err := reg.LoadOrRegister(ViewControllerClass, controllerTypeName(controller), func(decl *objc.ClassDecl) {
		decl.AddPointerIvar(ControllerPtrIvar)
	})
	if err != nil {
		return nil, err
	}

	rt := reg.Runtime()
	obj, allocErr := rt.NewObject(cls)
	if allocErr != nil {
		err := &errors.Error{
			Op:    op,
			Kind:  errors.KindRuntime,
			Class: controllerTypeName(controller),
			Err:   fmt.Errorf("instance allocation failed: %w", allocErr),
		}
		errors.Report(err)
		return nil, err
	}

	webView, webErr := n.NewWebView(controller.Config())
	if webErr != nil {
		rt.Release(obj)
		err := &errors.Error{
			Op:    op,
			Kind:  errors.KindRuntime,
			Class: "WKWebView",
			Err:   fmt.Errorf("web view allocation failed: %w", webErr),
		}
		errors.Report(err)
		return nil, err
	}
	if setErr := n.SetViewOf(obj, webView); setErr != nil {
		rt.Release(obj)
		err := &errors.Error{
			Op:    op,
			Kind:  errors.KindRuntime,
			Class: controllerTypeName(controller),
			Err:   fmt.Errorf("installing web view: %w", setErr),
		}
		errors.Report(err)
		return nil, err
	}

	token := objc.RegisterHandle(controller)
	if ivarErr := rt.SetIvar(obj, ControllerPtrIvar, token); ivarErr != nil {
		objc.TakeHandle(token)
		rt.Release(obj)
		err := &errors.Error{
			Op:    op,
			Kind:  errors.KindBridge,
			Class: controllerTypeName(controller),
			Err:   fmt.Errorf("storing controller token: %w", ivarErr),
		}
		errors.Report(err)
		return nil, err
	}

	handle := &ViewHandle{
		rt:    rt,
		obj:   obj,
		view:  webView,
		token: token,
	}
	controller.DidLoad(handle)
	return handle, nil
}
