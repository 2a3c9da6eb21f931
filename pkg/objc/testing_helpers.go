package objc

import (
	"fmt"
	"sync"
)

// FakeRuntime is an in-memory Runtime for tests. It behaves like the real
// runtime's global namespace: classes registered through it (or seeded with
// AddClass) are visible to LookupClass, instances carry named ivar slots,
// and retain/release counts are tracked so bridge-balance tests can assert
// they return to baseline.
type FakeRuntime struct {
	mu sync.Mutex

	// BundleID is returned by BundleIdentifier when non-empty.
	BundleID string

	classes    map[string]Class
	supers     map[Class]Class
	decls      map[Class]*ClassDecl
	ivars      map[Object]map[string]uintptr
	objClass   map[Object]Class
	refCounts  map[Object]int
	nextClass  Class
	nextObject Object

	// RegisterErr, when set, makes RegisterClass fail.
	RegisterErr error

	// Registered records the runtime names passed to RegisterClass, in order.
	Registered []string

	// Retains and Releases count reference-count traffic.
	Retains  int
	Releases int
}

// NewFakeRuntime returns an empty FakeRuntime.
func NewFakeRuntime() *FakeRuntime {
	return &FakeRuntime{
		classes:    make(map[string]Class),
		supers:     make(map[Class]Class),
		decls:      make(map[Class]*ClassDecl),
		ivars:      make(map[Object]map[string]uintptr),
		objClass:   make(map[Object]Class),
		refCounts:  make(map[Object]int),
		nextClass:  0x1000,
		nextObject: 0x100000,
	}
}

// AddClass seeds a pre-existing runtime class (for example "NSViewController")
// and returns its handle. A superclass handle of zero means a root class.
func (f *FakeRuntime) AddClass(name string, superclass Class) Class {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextClass++
	cls := f.nextClass
	f.classes[name] = cls
	f.supers[cls] = superclass
	return cls
}

func (f *FakeRuntime) LookupClass(name string) (Class, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cls, ok := f.classes[name]
	return cls, ok
}

func (f *FakeRuntime) Conforms(sub, super Class) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for cls := sub; cls != 0; cls = f.supers[cls] {
		if cls == super {
			return true
		}
	}
	return false
}

func (f *FakeRuntime) RegisterClass(decl *ClassDecl) (Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RegisterErr != nil {
		return 0, f.RegisterErr
	}
	if _, taken := f.classes[decl.Name()]; taken {
		return 0, fmt.Errorf("class name %q already registered", decl.Name())
	}
	f.nextClass++
	cls := f.nextClass
	f.classes[decl.Name()] = cls
	f.supers[cls] = decl.Superclass()
	f.decls[cls] = decl
	f.Registered = append(f.Registered, decl.Name())
	return cls, nil
}

func (f *FakeRuntime) NewObject(cls Class) (Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, known := f.supers[cls]; !known {
		return 0, fmt.Errorf("unknown class %#x", uintptr(cls))
	}
	f.nextObject++
	obj := f.nextObject
	f.objClass[obj] = cls
	f.refCounts[obj] = 1
	slots := make(map[string]uintptr)
	for c := cls; c != 0; c = f.supers[c] {
		if decl, ok := f.decls[c]; ok {
			for _, ivar := range decl.Ivars() {
				slots[ivar.Name] = 0
			}
		}
	}
	f.ivars[obj] = slots
	return obj, nil
}

func (f *FakeRuntime) SetIvar(obj Object, name string, value uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, ok := f.ivars[obj]
	if !ok {
		return fmt.Errorf("unknown object %#x", uintptr(obj))
	}
	if _, ok := slots[name]; !ok {
		return fmt.Errorf("no instance variable %q on object %#x", name, uintptr(obj))
	}
	slots[name] = value
	return nil
}

func (f *FakeRuntime) Ivar(obj Object, name string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots, ok := f.ivars[obj]
	if !ok {
		return 0, fmt.Errorf("unknown object %#x", uintptr(obj))
	}
	value, ok := slots[name]
	if !ok {
		return 0, fmt.Errorf("no instance variable %q on object %#x", name, uintptr(obj))
	}
	return value, nil
}

func (f *FakeRuntime) Retain(obj Object) Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Retains++
	f.refCounts[obj]++
	return obj
}

func (f *FakeRuntime) Release(obj Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Releases++
	f.refCounts[obj]--
}

func (f *FakeRuntime) BundleIdentifier() (string, bool) {
	if f.BundleID == "" {
		return "", false
	}
	return f.BundleID, true
}

// ClassOf returns the class an instance was allocated from, or zero for an
// unknown object.
func (f *FakeRuntime) ClassOf(obj Object) Class {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objClass[obj]
}

// RefCount returns the fake reference count for obj.
func (f *FakeRuntime) RefCount(obj Object) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refCounts[obj]
}

// SetupTestRuntime installs a fresh FakeRuntime as the process runtime and
// registers ResetForTest as a teardown. The cleanup function should be
// testing.T.Cleanup or equivalent:
//
//	rt := objc.SetupTestRuntime(t.Cleanup)
func SetupTestRuntime(cleanup func(func())) *FakeRuntime {
	rt := NewFakeRuntime()
	SetRuntime(rt)
	cleanup(ResetForTest)
	return rt
}
