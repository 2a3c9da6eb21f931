package appkit

import (
	"fmt"
	"sync"

	"github.com/go-cacao/cacao/pkg/errors"
	"github.com/go-cacao/cacao/pkg/objc"
)

// ViewHandle owns a bridged native instance and the single extra controller
// reference created at bind time. All forwarding operations are synchronous
// and become no-ops when the handle has no underlying object (zero handle,
// already disposed, or no AppKit surface installed); call sites may operate
// on not-yet-configured handles freely.
//
// Dispose must be called exactly once per successful bind; the handle makes
// repeated calls safe by making only the first one reclaim.
type ViewHandle struct {
	mu       sync.Mutex
	rt       objc.Runtime
	obj      objc.Object
	view     objc.Object
	token    uintptr
	disposed bool
}

// Object returns the underlying native instance, or 0 if the handle is
// empty or disposed.
func (h *ViewHandle) Object() objc.Object {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	obj := h.obj
	h.mu.Unlock()
	return obj
}

// View returns the associated view instance, or 0 when the controller is
// not view-backed.
func (h *ViewHandle) View() objc.Object {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	view := h.view
	h.mu.Unlock()
	return view
}

// target returns the object attribute setters forward to: the associated
// view when present, otherwise the instance itself.
func (h *ViewHandle) target() objc.Object {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return 0
	}
	if h.view != 0 {
		return h.view
	}
	return h.obj
}

// SetBackgroundColor sets the background color on the underlying view.
// No-op without an underlying object.
func (h *ViewHandle) SetBackgroundColor(color Color) {
	target := h.target()
	n := currentNative()
	if target == 0 || n == nil {
		return
	}
	if err := n.SetBackgroundColor(target, color); err != nil {
		errors.Report(&errors.Error{
			Op:   "appkit.ViewHandle.SetBackgroundColor",
			Kind: errors.KindRuntime,
			Err:  err,
		})
	}
}

// RegisterForDraggedTypes registers the pasteboard types the view accepts
// in drag-and-drop operations. No-op without an underlying object.
func (h *ViewHandle) RegisterForDraggedTypes(types []PasteboardType) {
	target := h.target()
	n := currentNative()
	if target == 0 || n == nil {
		return
	}
	identifiers := make([]string, len(types))
	for i, t := range types {
		identifiers[i] = t.Identifier()
	}
	if err := n.RegisterDraggedTypes(target, identifiers); err != nil {
		errors.Report(&errors.Error{
			Op:   "appkit.ViewHandle.RegisterForDraggedTypes",
			Kind: errors.KindRuntime,
			Err:  err,
		})
	}
}

// Top returns the view's top anchor descriptor.
func (h *ViewHandle) Top() LayoutAnchorY { return LayoutAnchorY{view: h.target(), attribute: AttrTop} }

// Bottom returns the view's bottom anchor descriptor.
func (h *ViewHandle) Bottom() LayoutAnchorY {
	return LayoutAnchorY{view: h.target(), attribute: AttrBottom}
}

// Leading returns the view's leading anchor descriptor.
func (h *ViewHandle) Leading() LayoutAnchorX {
	return LayoutAnchorX{view: h.target(), attribute: AttrLeading}
}

// Trailing returns the view's trailing anchor descriptor.
func (h *ViewHandle) Trailing() LayoutAnchorX {
	return LayoutAnchorX{view: h.target(), attribute: AttrTrailing}
}

// Width returns the view's width anchor descriptor.
func (h *ViewHandle) Width() LayoutAnchorDimension {
	return LayoutAnchorDimension{view: h.target(), attribute: AttrWidth}
}

// Height returns the view's height anchor descriptor.
func (h *ViewHandle) Height() LayoutAnchorDimension {
	return LayoutAnchorDimension{view: h.target(), attribute: AttrHeight}
}

// Dispose tears down the association: the controller token is reclaimed
// (exactly once across the handle's lifetime), the ivar slots are cleared,
// and the native instance is released. Further calls are no-ops, as are all
// forwarding operations afterwards. UI thread only.
func (h *ViewHandle) Dispose() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return
	}
	h.disposed = true

	if h.token != 0 {
		if _, ok := objc.TakeHandle(h.token); !ok {
			errors.Report(&errors.Error{
				Op:   "appkit.ViewHandle.Dispose",
				Kind: errors.KindBridge,
				Err:  fmt.Errorf("controller token %#x already reclaimed", h.token),
			})
		}
		h.token = 0
	}

	if h.rt != nil {
		// Clearing is best-effort: plain view classes (WKWebView) carry no
		// ivar slot, and the instance is released immediately after.
		if h.view != 0 {
			_ = h.rt.SetIvar(h.view, ControllerPtrIvar, 0)
		}
		if h.obj != 0 {
			_ = h.rt.SetIvar(h.obj, ControllerPtrIvar, 0)
			h.rt.Release(h.obj)
		}
	}
	h.obj = 0
	h.view = 0
}
