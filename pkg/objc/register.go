package objc

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-cacao/cacao/pkg/errors"
)

// Registrar resolves or dynamically registers runtime subclasses. Repeated
// requests for the same (superclass, subclass) pair hit the cache and return
// the original handle; the declaration callback runs at most once per pair.
type Registrar struct {
	rt      Runtime
	classes *ClassMap

	bundleOnce sync.Once
	bundleID   string
}

// NewRegistrar returns a Registrar backed by rt with a fresh class cache.
func NewRegistrar(rt Runtime) *Registrar {
	return &Registrar{
		rt:      rt,
		classes: NewClassMap(rt),
	}
}

// Classes returns the registrar's class cache.
func (r *Registrar) Classes() *ClassMap { return r.classes }

// Runtime returns the Runtime the registrar was built around.
func (r *Registrar) Runtime() Runtime { return r.rt }

// LoadOrRegister resolves a subclass of superclassName named subclassName,
// registering it with the runtime on first use. The configure callback may
// add storage slots and method overrides to the declaration before it is
// registered; it is not invoked on cache hits.
//
// Registration failures are framework-breaking: a missing superclass or a
// failed class-pair allocation means the bindings' own prerequisites are
// broken, so both are returned (and reported) as KindConfig errors. Use
// MustLoadOrRegister for the abort-on-failure policy.
func (r *Registrar) LoadOrRegister(superclassName, subclassName string, configure func(*ClassDecl)) (Class, error) {
	const op = "objc.Registrar.LoadOrRegister"

	if cls, ok := r.classes.Load(subclassName, superclassName); ok {
		return cls, nil
	}

	if r.rt == nil {
		err := &errors.Error{
			Op:    op,
			Kind:  errors.KindConfig,
			Class: subclassName,
			Err:   fmt.Errorf("no runtime installed; cannot register %s", subclassName),
		}
		errors.Report(err)
		return 0, err
	}

	superclass, ok := r.classes.Load(superclassName, "")
	if !ok {
		err := &errors.Error{
			Op:    op,
			Kind:  errors.KindConfig,
			Class: subclassName,
			Err:   fmt.Errorf("attempted to create subclass for %s, but unable to load superclass of type %s", subclassName, superclassName),
		}
		errors.Report(err)
		return 0, err
	}

	decl := NewClassDecl(r.runtimeName(subclassName, superclassName), superclass, superclassName)
	if configure != nil {
		configure(decl)
	}

	cls, regErr := r.rt.RegisterClass(decl)
	if regErr != nil {
		err := &errors.Error{
			Op:    op,
			Kind:  errors.KindConfig,
			Class: decl.Name(),
			Err:   fmt.Errorf("subclass of type %s_%s could not be allocated: %w", subclassName, superclassName, regErr),
		}
		errors.Report(err)
		return 0, err
	}

	r.classes.Store(subclassName, superclassName, cls)
	return cls, nil
}

// MustLoadOrRegister is LoadOrRegister but panics on failure. Class
// registration is a one-time operation the rest of the framework cannot
// function without, so embedders that have no meaningful way to continue
// can use this variant to keep the failure at the call site.
func (r *Registrar) MustLoadOrRegister(superclassName, subclassName string, configure func(*ClassDecl)) Class {
	cls, err := r.LoadOrRegister(superclassName, subclassName, configure)
	if err != nil {
		panic(err)
	}
	return cls
}

// runtimeName synthesizes a process-unique runtime name for the subclass.
// The runtime has a single global class namespace shared by everything
// loaded into the process; two independently compiled bundles defining the
// same subclass would otherwise collide, so the sanitized bundle identifier
// is appended when one is available.
func (r *Registrar) runtimeName(subclassName, superclassName string) string {
	r.bundleOnce.Do(func() {
		if r.rt == nil {
			return
		}
		if id, ok := r.rt.BundleIdentifier(); ok {
			r.bundleID = sanitizeBundleID(id)
		}
	})

	if r.bundleID == "" {
		return fmt.Sprintf("%s_%s", subclassName, superclassName)
	}
	return fmt.Sprintf("%s_%s_%s", subclassName, superclassName, r.bundleID)
}

var bundleIDSanitizer = strings.NewReplacer(".", "_", "-", "_")

// sanitizeBundleID rewrites a bundle identifier into a legal class name
// fragment: dots and hyphens become underscores.
func sanitizeBundleID(id string) string {
	return bundleIDSanitizer.Replace(id)
}
