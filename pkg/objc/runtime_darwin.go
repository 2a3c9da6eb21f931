//go:build darwin && cgo

package objc

/*
#cgo LDFLAGS: -lobjc -framework CoreFoundation

#include <stdlib.h>
#include <string.h>
#include <objc/runtime.h>
#include <objc/message.h>
#include <CoreFoundation/CoreFoundation.h>

static void *cacao_new_object(void *cls) {
	typedef void *(*send_fn)(void *, SEL);
	send_fn send = (send_fn)objc_msgSend;
	void *obj = send(cls, sel_registerName("alloc"));
	if (obj == NULL) {
		return NULL;
	}
	return send(obj, sel_registerName("init"));
}

static void *cacao_retain(void *obj) {
	typedef void *(*send_fn)(void *, SEL);
	return ((send_fn)objc_msgSend)(obj, sel_registerName("retain"));
}

static void cacao_release(void *obj) {
	typedef void (*send_fn)(void *, SEL);
	((send_fn)objc_msgSend)(obj, sel_registerName("release"));
}

// Returns a malloc'd UTF-8 copy of the main bundle identifier, or NULL when
// the process is not running inside a bundle. Caller frees.
static char *cacao_bundle_identifier(void) {
	CFBundleRef bundle = CFBundleGetMainBundle();
	if (bundle == NULL) {
		return NULL;
	}
	CFStringRef ident = CFBundleGetIdentifier(bundle);
	if (ident == NULL) {
		return NULL;
	}
	CFIndex length = CFStringGetLength(ident);
	CFIndex max = CFStringGetMaximumSizeForEncoding(length, kCFStringEncodingUTF8) + 1;
	char *buf = malloc(max);
	if (buf == NULL) {
		return NULL;
	}
	if (!CFStringGetCString(ident, buf, max, kCFStringEncodingUTF8)) {
		free(buf);
		return NULL;
	}
	return buf;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Storage slots are stashed-pointer slots; they register with the
// unsigned-long type encoding, matching how the bridge reads them back.
var ivarTypeEncoding = C.CString("L")

// hostRuntimeDarwin is the cgo-backed Runtime over the real Objective-C
// runtime. Allocation, ivar access, and retain/release are only valid on
// the locked main thread; class lookups are safe from any thread.
type hostRuntimeDarwin struct{}

// HostRuntime returns the Runtime backed by the process's Objective-C
// runtime. Install it once at startup:
//
//	objc.SetRuntime(objc.HostRuntime())
func HostRuntime() Runtime {
	return hostRuntimeDarwin{}
}

func (hostRuntimeDarwin) LookupClass(name string) (Class, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	cls := C.objc_getClass(cname)
	if cls == nil {
		return 0, false
	}
	return Class(uintptr(unsafe.Pointer(cls))), true
}

func (hostRuntimeDarwin) Conforms(sub, super Class) bool {
	for cls := C.Class(unsafe.Pointer(sub)); cls != nil; cls = C.class_getSuperclass(cls) {
		if Class(uintptr(unsafe.Pointer(cls))) == super {
			return true
		}
	}
	return false
}

func (hostRuntimeDarwin) RegisterClass(decl *ClassDecl) (Class, error) {
	cname := C.CString(decl.Name())
	defer C.free(unsafe.Pointer(cname))

	cls := C.objc_allocateClassPair(C.Class(unsafe.Pointer(decl.Superclass())), cname, 0)
	if cls == nil {
		return 0, fmt.Errorf("objc_allocateClassPair failed for %q (name already taken?)", decl.Name())
	}

	for _, ivar := range decl.Ivars() {
		iname := C.CString(ivar.Name)
		if C.class_addIvar(cls, iname, C.size_t(ivar.Size), C.uint8_t(ivarAlignment(ivar.Size)), ivarTypeEncoding) == 0 {
			C.free(unsafe.Pointer(iname))
			C.objc_disposeClassPair(cls)
			return 0, fmt.Errorf("class_addIvar failed for %q on %q", ivar.Name, decl.Name())
		}
		C.free(unsafe.Pointer(iname))
	}

	for _, m := range decl.Methods() {
		sname := C.CString(m.Selector)
		tenc := C.CString(m.TypeEncoding)
		ok := C.class_addMethod(cls, C.sel_registerName(sname), C.IMP(m.Imp), tenc)
		C.free(unsafe.Pointer(sname))
		C.free(unsafe.Pointer(tenc))
		if ok == 0 {
			C.objc_disposeClassPair(cls)
			return 0, fmt.Errorf("class_addMethod failed for %q on %q", m.Selector, decl.Name())
		}
	}

	C.objc_registerClassPair(cls)
	return Class(uintptr(unsafe.Pointer(cls))), nil
}

func (hostRuntimeDarwin) NewObject(cls Class) (Object, error) {
	obj := C.cacao_new_object(unsafe.Pointer(cls))
	if obj == nil {
		return 0, fmt.Errorf("instance allocation failed for class %#x", uintptr(cls))
	}
	return Object(uintptr(obj)), nil
}

func (hostRuntimeDarwin) SetIvar(obj Object, name string, value uintptr) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	if C.object_setInstanceVariable(C.id(unsafe.Pointer(obj)), cname, unsafe.Pointer(value)) == nil {
		return fmt.Errorf("no instance variable %q on object %#x", name, uintptr(obj))
	}
	return nil
}

func (hostRuntimeDarwin) Ivar(obj Object, name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var out unsafe.Pointer
	if C.object_getInstanceVariable(C.id(unsafe.Pointer(obj)), cname, &out) == nil {
		return 0, fmt.Errorf("no instance variable %q on object %#x", name, uintptr(obj))
	}
	return uintptr(out), nil
}

func (hostRuntimeDarwin) Retain(obj Object) Object {
	return Object(uintptr(C.cacao_retain(unsafe.Pointer(obj))))
}

func (hostRuntimeDarwin) Release(obj Object) {
	C.cacao_release(unsafe.Pointer(obj))
}

func (hostRuntimeDarwin) BundleIdentifier() (string, bool) {
	cid := C.cacao_bundle_identifier()
	if cid == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(cid))
	return C.GoString(cid), true
}

// ivarAlignment returns log2 of the slot's natural alignment, capped at
// pointer alignment.
func ivarAlignment(size uintptr) uint8 {
	var align uint8
	for s := uintptr(1); s < size && align < 3; s <<= 1 {
		align++
	}
	return align
}
