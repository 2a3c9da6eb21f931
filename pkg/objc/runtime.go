// Package objc implements the class registration core of the cacao bindings:
// a process-wide class cache, a dynamic subclass registrar, and the handle
// table used to pass Go controller references through Objective-C instance
// variables.
//
// The Objective-C runtime itself is reached through the Runtime interface.
// On darwin the package provides a cgo-backed implementation (see
// HostRuntime); everywhere else, and in tests, callers install their own
// with SetRuntime.
package objc

import "sync"

// Class is an opaque handle to an Objective-C class definition. The runtime
// owns registered classes for the process lifetime; a Class value is a
// non-owning reference and is never dereferenced by this package.
type Class uintptr

// Object is an opaque handle to an Objective-C object instance.
type Object uintptr

// Runtime is the set of host runtime primitives the registration core is
// built on. Implementations are queried for class existence, asked to
// register new class pairs, and used for instance allocation and ivar
// access. All calls that touch live objects (NewObject, SetIvar, Ivar,
// Retain, Release) are only valid on the UI thread.
type Runtime interface {
	// LookupClass returns the class registered under name, if any.
	LookupClass(name string) (Class, bool)

	// Conforms reports whether sub is super or inherits from it.
	Conforms(sub, super Class) bool

	// RegisterClass registers the declaration's class pair with the
	// runtime, applying its ivar and method additions atomically, and
	// returns the new class handle.
	RegisterClass(decl *ClassDecl) (Class, error)

	// NewObject allocates and initializes an instance of cls.
	NewObject(cls Class) (Object, error)

	// SetIvar stores an address-sized value in the named instance variable.
	SetIvar(obj Object, name string, value uintptr) error

	// Ivar reads the named instance variable as an address-sized value.
	Ivar(obj Object, name string) (uintptr, error)

	// Retain increments the instance's reference count and returns it.
	Retain(obj Object) Object

	// Release decrements the instance's reference count.
	Release(obj Object)

	// BundleIdentifier returns the main bundle's identifier. The second
	// return is false when the process is not running inside a bundle, in
	// which case subclass name disambiguation is skipped.
	BundleIdentifier() (string, bool)
}

var (
	runtimeMu   sync.RWMutex
	hostRuntime Runtime
)

// SetRuntime installs the process Runtime used by the default registrar.
// Called during startup (on darwin, by installing HostRuntime) or by tests
// installing a fake. Installation may happen after package-level calls have
// already failed: the default registrar is discarded along with its class
// cache, and the next use builds a fresh one around the new runtime.
func SetRuntime(rt Runtime) {
	runtimeMu.Lock()
	hostRuntime = rt
	runtimeMu.Unlock()

	registrarMu.Lock()
	defaultRegistrar = nil
	registrarMu.Unlock()
}

// CurrentRuntime returns the installed process Runtime, or nil if none has
// been set.
func CurrentRuntime() Runtime {
	runtimeMu.RLock()
	rt := hostRuntime
	runtimeMu.RUnlock()
	return rt
}

var (
	registrarMu      sync.Mutex
	defaultRegistrar *Registrar
)

// DefaultRegistrar returns the process-wide registrar, creating it on first
// use around the installed Runtime. The registrar and its class cache live
// until SetRuntime installs a different Runtime, which starts them over.
func DefaultRegistrar() *Registrar {
	registrarMu.Lock()
	defer registrarMu.Unlock()
	if defaultRegistrar == nil {
		defaultRegistrar = NewRegistrar(CurrentRuntime())
	}
	return defaultRegistrar
}

// LoadOrRegister resolves or registers a subclass through the default
// registrar. See Registrar.LoadOrRegister.
func LoadOrRegister(superclassName, subclassName string, configure func(*ClassDecl)) (Class, error) {
	return DefaultRegistrar().LoadOrRegister(superclassName, subclassName, configure)
}

// MustLoadOrRegister is LoadOrRegister with the classic abort-on-failure
// behavior. See Registrar.MustLoadOrRegister.
func MustLoadOrRegister(superclassName, subclassName string, configure func(*ClassDecl)) Class {
	return DefaultRegistrar().MustLoadOrRegister(superclassName, subclassName, configure)
}

// ResetForTest clears the installed runtime, the default registrar, and the
// handle table so the package behaves as if freshly initialized. This should
// only be called from tests.
func ResetForTest() {
	SetRuntime(nil)

	handleMu.Lock()
	handleTable = map[uintptr]any{}
	handleMu.Unlock()
	handleSeq.Store(0)
}
