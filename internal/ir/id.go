// Package ir holds the typed intermediate representation produced by
// resolution (spec §3's "Typed IR entities"): modules, items, data types,
// functions, tables, variables, scopes, expressions, and statements, plus
// the Handle type that lets cyclic item references share mutable state
// safely under the single-threaded-by-contract model (spec §5).
package ir

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID stably and sortably identifies an arena-allocated IR entity; creation
// order is meaningful for the driver's insertion-order guarantees (spec §5).
type ID = ulid.ULID

var (
	idMu     sync.Mutex
	idSource = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewID mints a fresh, time-ordered handle ID. Guarded by idMu even though
// the driver is single-threaded by contract (§5) — ulid.Monotonic's entropy
// reader is not itself safe for concurrent use, and this keeps the
// invariant true regardless of how an embedder schedules driver instances.
func NewID() ID {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idSource)
}
