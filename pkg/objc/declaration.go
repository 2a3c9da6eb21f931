package objc

import "unsafe"

// PointerIvarSize is the size of an address-sized instance variable.
const PointerIvarSize = unsafe.Sizeof(uintptr(0))

// IvarSpec describes a named, fixed-size storage slot to be added to a
// class declaration.
type IvarSpec struct {
	Name string
	Size uintptr
}

// MethodSpec describes a method to be added to a class declaration. Imp is
// the implementation's function pointer (on darwin, typically obtained from
// a cgo-exported function); TypeEncoding is the runtime's type encoding
// string for the method signature.
type MethodSpec struct {
	Selector     string
	Imp          unsafe.Pointer
	TypeEncoding string
}

// ClassDecl is an in-progress, not-yet-registered class declaration. The
// declaration callback passed to Registrar.LoadOrRegister receives one of
// these and may add storage slots and method implementations; the additions
// are applied in order, atomically, when the runtime registers the class
// pair. Callers must not attempt to register the declaration themselves.
type ClassDecl struct {
	name           string
	superclass     Class
	superclassName string
	ivars          []IvarSpec
	methods        []MethodSpec
}

// NewClassDecl returns a declaration for a subclass of superclass using the
// given runtime name.
func NewClassDecl(name string, superclass Class, superclassName string) *ClassDecl {
	return &ClassDecl{
		name:           name,
		superclass:     superclass,
		superclassName: superclassName,
	}
}

// Name returns the synthesized runtime name the class will register under.
func (d *ClassDecl) Name() string { return d.name }

// Superclass returns the resolved superclass handle.
func (d *ClassDecl) Superclass() Class { return d.superclass }

// SuperclassName returns the superclass name, kept for diagnostics.
func (d *ClassDecl) SuperclassName() string { return d.superclassName }

// AddIvar adds a named storage slot of the given size.
func (d *ClassDecl) AddIvar(name string, size uintptr) {
	d.ivars = append(d.ivars, IvarSpec{Name: name, Size: size})
}

// AddPointerIvar adds an address-sized storage slot, the shape used for
// stashing controller tokens on bridged instances.
func (d *ClassDecl) AddPointerIvar(name string) {
	d.AddIvar(name, PointerIvarSize)
}

// AddMethod adds or overrides a method implementation.
func (d *ClassDecl) AddMethod(selector string, imp unsafe.Pointer, typeEncoding string) {
	d.methods = append(d.methods, MethodSpec{
		Selector:     selector,
		Imp:          imp,
		TypeEncoding: typeEncoding,
	})
}

// Ivars returns the storage slots added so far, in insertion order.
func (d *ClassDecl) Ivars() []IvarSpec { return d.ivars }

// Methods returns the methods added so far, in insertion order.
func (d *ClassDecl) Methods() []MethodSpec { return d.methods }
