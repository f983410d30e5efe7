package storage

import "errors"

// ErrAllocation is returned when a storage constructor cannot allocate
// the backing arrays it needs (spec §7: "Allocation failure: surfaced
// as a typed error from storage constructors"). Go's allocator panics
// rather than returning an error on real out-of-memory, so in practice
// this sentinel is only reachable via the explicit size-guard in
// NewOrdered/NewReordered; it exists so the public API shape matches
// the documented error taxonomy instead of silently panicking.
var ErrAllocation = errors.New("storage: allocation failed")

// maxReasonableLen guards against pathological inputs (e.g. a caller
// passing a corrupted or adversarial length) before any allocation is
// attempted, rather than allowing the runtime to panic.
const maxReasonableLen = 1 << 40
