package objc

import (
	"sync"
	"sync/atomic"
)

// The handle table stores Go controller references keyed by an incrementing
// token, allowing safe passage of Go objects through Objective-C instance
// variables without violating cgo pointer rules. A token is address-sized
// and opaque to the runtime; zero is never a valid token.
//
// Each bridge registers exactly one token per live native-side association
// and must reclaim it exactly once with TakeHandle at teardown. A token
// that is never taken keeps its controller alive for the life of the
// process; TakeHandle makes a second reclaim observable instead of
// undefined.
var (
	handleMu    sync.RWMutex
	handleSeq   atomic.Uintptr
	handleTable = map[uintptr]any{}
)

// RegisterHandle stores v and returns the token to stash in an ivar.
func RegisterHandle(v any) uintptr {
	h := handleSeq.Add(1)
	handleMu.Lock()
	handleTable[h] = v
	handleMu.Unlock()
	return h
}

// LookupHandle returns the value registered under h without consuming the
// token. Native callbacks use this to recover their owning controller.
// Returns nil for zero or unknown tokens.
func LookupHandle(h uintptr) any {
	handleMu.RLock()
	v := handleTable[h]
	handleMu.RUnlock()
	return v
}

// TakeHandle removes and returns the value registered under h. The second
// return is false if the token was already taken or never registered;
// callers treat that as a balance violation, not a value.
func TakeHandle(h uintptr) (any, bool) {
	handleMu.Lock()
	v, ok := handleTable[h]
	if ok {
		delete(handleTable, h)
	}
	handleMu.Unlock()
	return v, ok
}

// HandleCount returns the number of live tokens.
func HandleCount() int {
	handleMu.RLock()
	n := len(handleTable)
	handleMu.RUnlock()
	return n
}
