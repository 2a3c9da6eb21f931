//go:build darwin && cgo

package appkit

/*
#cgo LDFLAGS: -lobjc -framework AppKit -framework WebKit -framework CoreGraphics

#include <stdlib.h>
#include <objc/runtime.h>
#include <objc/message.h>
#include <CoreFoundation/CoreFoundation.h>
#include <CoreGraphics/CoreGraphics.h>

typedef void *(*cacao_send_fn)(void *, SEL);
typedef void (*cacao_send_obj_fn)(void *, SEL, void *);
typedef void (*cacao_send_bool_fn)(void *, SEL, signed char);

static void *cacao_send(void *obj, const char *sel) {
	return ((cacao_send_fn)objc_msgSend)(obj, sel_registerName(sel));
}

static void cacao_send_obj(void *obj, const char *sel, void *arg) {
	((cacao_send_obj_fn)objc_msgSend)(obj, sel_registerName(sel), arg);
}

static void cacao_send_bool(void *obj, const char *sel, int arg) {
	((cacao_send_bool_fn)objc_msgSend)(obj, sel_registerName(sel), (signed char)(arg ? 1 : 0));
}

static void *cacao_new(const char *class_name) {
	void *cls = (void *)objc_getClass(class_name);
	if (cls == NULL) {
		return NULL;
	}
	void *obj = cacao_send(cls, "alloc");
	if (obj == NULL) {
		return NULL;
	}
	return cacao_send(obj, "init");
}

// Toll-free bridged NSString; caller releases with CFRelease.
static void *cacao_nsstring(const char *s) {
	return (void *)CFStringCreateWithCString(NULL, s, kCFStringEncodingUTF8);
}

static void cacao_set_layer_background(void *view, double r, double g, double b, double a) {
	cacao_send_bool(view, "setWantsLayer:", 1);
	void *layer = cacao_send(view, "layer");
	if (layer == NULL) {
		return;
	}
	CGColorRef color = CGColorCreateGenericRGB(r, g, b, a);
	cacao_send_obj(layer, "setBackgroundColor:", (void *)color);
	CGColorRelease(color);
}

static void cacao_register_dragged_types(void *view, void **types, int count) {
	CFArrayRef array = CFArrayCreate(NULL, (const void **)types, count, &kCFTypeArrayCallBacks);
	cacao_send_obj(view, "registerForDraggedTypes:", (void *)array);
	CFRelease(array);
}

static void cacao_release_object(void *obj) {
	((cacao_send_fn)objc_msgSend)(obj, sel_registerName("release"));
}

static void *cacao_new_webview(void *config) {
	void *cls = (void *)objc_getClass("WKWebView");
	if (cls == NULL) {
		return NULL;
	}
	void *webview = cacao_send(cls, "alloc");
	if (webview == NULL) {
		return NULL;
	}
	typedef void *(*init_fn)(void *, SEL, CGRect, void *);
	return ((init_fn)objc_msgSend)(webview, sel_registerName("initWithFrame:configuration:"), CGRectZero, config);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/go-cacao/cacao/pkg/objc"
)

// nativeDarwin is the cgo-backed AppKit/WebKit surface. UI thread only.
type nativeDarwin struct{}

// HostNative returns the Native backed by AppKit and WebKit. Install it once
// at startup:
//
//	appkit.SetNative(appkit.HostNative())
func HostNative() Native {
	return nativeDarwin{}
}

// Selector names live for the process; no point freeing them.
var (
	selView        = C.CString("view")
	selSetView     = C.CString("setView:")
	selPreferences = C.CString("preferences")
	selSetJS       = C.CString("setJavaScriptEnabled:")
	selSetUA       = C.CString("setCustomUserAgent:")
)

func (nativeDarwin) ViewOf(controller objc.Object) (objc.Object, bool) {
	if controller == 0 {
		return 0, false
	}
	view := C.cacao_send(unsafe.Pointer(controller), selView)
	if view == nil {
		return 0, false
	}
	return objc.Object(uintptr(view)), true
}

func (nativeDarwin) SetViewOf(controller, view objc.Object) error {
	if controller == 0 || view == 0 {
		return fmt.Errorf("nil controller or view")
	}
	C.cacao_send_obj(unsafe.Pointer(controller), selSetView, unsafe.Pointer(view))
	return nil
}

func (nativeDarwin) SetBackgroundColor(view objc.Object, color Color) error {
	if view == 0 {
		return fmt.Errorf("nil view")
	}
	C.cacao_set_layer_background(unsafe.Pointer(view),
		C.double(color.Red), C.double(color.Green), C.double(color.Blue), C.double(color.Alpha))
	return nil
}

func (nativeDarwin) RegisterDraggedTypes(view objc.Object, types []string) error {
	if view == 0 {
		return fmt.Errorf("nil view")
	}
	if len(types) == 0 {
		return nil
	}

	strs := make([]unsafe.Pointer, len(types))
	for i, t := range types {
		ct := C.CString(t)
		strs[i] = C.cacao_nsstring(ct)
		C.free(unsafe.Pointer(ct))
	}
	C.cacao_register_dragged_types(unsafe.Pointer(view), &strs[0], C.int(len(strs)))
	for _, s := range strs {
		C.CFRelease(C.CFTypeRef(s))
	}
	return nil
}

func (nativeDarwin) NewWebView(config WebViewConfig) (objc.Object, error) {
	cname := C.CString("WKWebViewConfiguration")
	wkConfig := C.cacao_new(cname)
	C.free(unsafe.Pointer(cname))
	if wkConfig == nil {
		return 0, fmt.Errorf("WKWebViewConfiguration allocation failed")
	}

	if config.DisableJavaScript {
		if prefs := C.cacao_send(wkConfig, selPreferences); prefs != nil {
			C.cacao_send_bool(prefs, selSetJS, 0)
		}
	}

	// TODO: register config.MessageHandlers on the configuration's user
	// content controller via a cgo-exported WKScriptMessageHandler
	// trampoline that forwards into DispatchScriptMessage; until then
	// handler names are ignored on this surface.

	webview := C.cacao_new_webview(wkConfig)
	C.cacao_release_object(wkConfig)
	if webview == nil {
		return 0, fmt.Errorf("WKWebView allocation failed")
	}

	if config.UserAgent != "" {
		cua := C.CString(config.UserAgent)
		ns := C.cacao_nsstring(cua)
		C.free(unsafe.Pointer(cua))
		C.cacao_send_obj(webview, selSetUA, ns)
		C.CFRelease(C.CFTypeRef(ns))
	}

	return objc.Object(uintptr(webview)), nil
}
