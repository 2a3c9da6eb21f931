package appkit

import (
	"fmt"

	"github.com/go-cacao/cacao/pkg/errors"
	"github.com/go-cacao/cacao/pkg/objc"
)

// Bind associates controller with a freshly allocated native view controller
// instance through the default registrar. See BindWith.
func Bind(controller ViewController) (*ViewHandle, error) {
	return BindWith(objc.DefaultRegistrar(), controller)
}

// BindWith resolves (or registers) the controller's NSViewController
// subclass, allocates an instance of it, stores the controller's token in
// the instance's hidden ivar slot on both the controller object and its
// associated view, and wraps the instance in an owning ViewHandle. The
// controller's DidLoad hook runs exactly once, after the native instance
// exists and before the handle is returned.
//
// The returned handle holds the one extra controller reference created here;
// ViewHandle.Dispose reclaims it. UI thread only.
func BindWith(reg *objc.Registrar, controller ViewController) (*ViewHandle, error) {
	const op = "appkit.Bind"

	if controller == nil {
		return nil, &errors.Error{
			Op:   op,
			Kind: errors.KindBridge,
			Err:  fmt.Errorf("nil controller"),
		}
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

	// View-backed controllers get the token on the view too, so native view
	// callbacks (drag-and-drop, drawing) can recover the controller without
	// walking back to the view controller.
	var view objc.Object
	if n := currentNative(); n != nil {
		if v, ok := n.ViewOf(obj); ok {
			view = v
			if ivarErr := rt.SetIvar(view, ControllerPtrIvar, token); ivarErr != nil {
				errors.Report(&errors.Error{
					Op:    op,
					Kind:  errors.KindBridge,
					Class: controllerTypeName(controller),
					Err:   fmt.Errorf("storing controller token on view: %w", ivarErr),
				})
			}
		}
	}

	handle := &ViewHandle{
		rt:    rt,
		obj:   obj,
		view:  view,
		token: token,
	}
	controller.DidLoad(handle)
	return handle, nil
}
