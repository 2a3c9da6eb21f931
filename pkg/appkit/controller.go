// Package appkit binds Go controller objects to AppKit view controllers:
// dynamic NSViewController subclasses carry a hidden instance variable
// holding a token for the owning Go controller, and native callbacks recover
// the controller through that token. ViewHandle owns the native instance and
// reclaims the token exactly once on Dispose.
package appkit

import (
	"reflect"

	"github.com/go-cacao/cacao/pkg/objc"
)

// ViewControllerClass is the AppKit superclass every bridged controller
// subclasses.
const ViewControllerClass = "NSViewController"

// ControllerPtrIvar is the hidden storage slot on bridged instances holding
// the owning controller's token.
const ControllerPtrIvar = "cacaoControllerPtr"

// ViewController is the lifecycle contract for a bridged Go controller.
type ViewController interface {
	// DidLoad is invoked exactly once per bridge, after the native instance
	// exists and before the handle is returned to the caller.
	DidLoad(view *ViewHandle)
}

// controllerTypeName derives the logical subclass name from the controller's
// Go type. Pointer indirections are stripped; anonymous types fall back to a
// fixed name.
func controllerTypeName(controller ViewController) string {
	t := reflect.TypeOf(controller)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "CacaoController"
	}
	return t.Name()
}

// ControllerFromObject recovers the Go controller associated with a bridged
// native instance. Native callbacks use this to route method invocations
// back to the owning controller. The second return is false if the object
// carries no live token.
func ControllerFromObject(rt objc.Runtime, obj objc.Object) (ViewController, bool) {
	if rt == nil || obj == 0 {
		return nil, false
	}
	token, err := rt.Ivar(obj, ControllerPtrIvar)
	if err != nil || token == 0 {
		return nil, false
	}
	controller, ok := objc.LookupHandle(token).(ViewController)
	return controller, ok
}
