package objc

import (
	"sync"
	"testing"

	"github.com/go-cacao/cacao/pkg/errors"
)

// silenceReports swallows reported errors for the duration of a test.
type silenceReports struct{}

func (silenceReports) HandleError(*errors.Error)      {}
func (silenceReports) HandlePanic(*errors.PanicError) {}

func TestLoadAbsentClass(t *testing.T) {
	rt := NewFakeRuntime()
	m := NewClassMap(rt)

	if _, ok := m.Load("Unregistered", ""); ok {
		t.Error("Load of a class that exists nowhere should return absent")
	}
	if m.Len() != 0 {
		t.Errorf("absent lookup should not populate the cache, got %d entries", m.Len())
	}
}

func TestLoadFallsBackToRuntime(t *testing.T) {
	rt := NewFakeRuntime()
	want := rt.AddClass("NSView", 0)
	m := NewClassMap(rt)

	got, ok := m.Load("NSView", "")
	if !ok || got != want {
		t.Fatalf("Load(NSView) = (%#x, %v), want (%#x, true)", got, ok, want)
	}

	// The fallback result is cached; a second load must not depend on the
	// runtime at all.
	m.rt = nil
	got, ok = m.Load("NSView", "")
	if !ok || got != want {
		t.Errorf("second Load(NSView) = (%#x, %v), want cached (%#x, true)", got, ok, want)
	}
}

func TestLoadWithNilRuntime(t *testing.T) {
	m := NewClassMap(nil)
	if _, ok := m.Load("NSView", ""); ok {
		t.Error("Load with no runtime and an empty cache should return absent")
	}
}

func TestKeyDistinctness(t *testing.T) {
	m := NewClassMap(nil)
	m.Store("B", "A", Class(0x10))
	m.Store("B", "", Class(0x20))

	subclassed, ok := m.Load("B", "A")
	if !ok || subclassed != Class(0x10) {
		t.Errorf(`Load("B","A") = (%#x, %v), want (0x10, true)`, subclassed, ok)
	}
	plain, ok := m.Load("B", "")
	if !ok || plain != Class(0x20) {
		t.Errorf(`Load("B","") = (%#x, %v), want (0x20, true)`, plain, ok)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 independent entries, got %d", m.Len())
	}
}

func TestStoreOverwrites(t *testing.T) {
	m := NewClassMap(nil)
	m.Store("B", "A", Class(0x10))
	m.Store("B", "A", Class(0x30))

	got, _ := m.Load("B", "A")
	if got != Class(0x30) {
		t.Errorf("Store should replace wholesale, got %#x", got)
	}
	if m.Len() != 1 {
		t.Errorf("overwrite must not add an entry, got %d", m.Len())
	}
}

func TestFallbackRejectsIncompatibleAncestry(t *testing.T) {
	prev := errors.DefaultHandler
	errors.SetHandler(silenceReports{})
	t.Cleanup(func() { errors.SetHandler(prev) })

	rt := NewFakeRuntime()
	rt.AddClass("NSResponder", 0)
	// A same-named class from an unrelated bundle: exists globally but does
	// not inherit from the requested superclass.
	rt.AddClass("Impostor", 0)

	m := NewClassMap(rt)
	if _, ok := m.Load("Impostor", "NSResponder"); ok {
		t.Error("fallback must not adopt a class with incompatible ancestry")
	}
	if m.Len() != 0 {
		t.Error("rejected class must not be cached")
	}
}

func TestFallbackAcceptsCompatibleAncestry(t *testing.T) {
	rt := NewFakeRuntime()
	responder := rt.AddClass("NSResponder", 0)
	view := rt.AddClass("NSView", responder)

	m := NewClassMap(rt)
	got, ok := m.Load("NSView", "NSResponder")
	if !ok || got != view {
		t.Errorf(`Load("NSView","NSResponder") = (%#x, %v), want (%#x, true)`, got, ok, view)
	}
}

func TestConcurrentReads(t *testing.T) {
	m := NewClassMap(nil)
	m.Store("NSView", "", Class(0x40))
	m.Store("NSViewController", "", Class(0x50))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 1000; j++ {
				if cls, ok := m.Load("NSView", ""); !ok || cls != Class(0x40) {
					t.Errorf("torn read: (%#x, %v)", cls, ok)
					return
				}
				if cls, ok := m.Load("NSViewController", ""); !ok || cls != Class(0x50) {
					t.Errorf("torn read: (%#x, %v)", cls, ok)
					return
				}
			}
		}()
	}
	close(start)
	wg.Wait()
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	rt := NewFakeRuntime()
	rt.AddClass("NSView", 0)
	m := NewClassMap(rt)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				m.Store("NSView", "", Class(0x40))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				m.Load("NSView", "")
			}
		}()
	}
	wg.Wait()
}
