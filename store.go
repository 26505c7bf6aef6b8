// Package dataflow provides the per-program-point flow state for iterative
// dataflow analyses over go/ast control-flow graphs (such as the ones built
// by golang.org/x/tools/go/cfg).
//
// The central type is [Store], an immutable map from each function-scoped
// variable to an abstract value drawn from a caller-supplied lattice. While
// the interface is written in terms of reference nodes, the stored data is
// keyed by variable declaration, so bindings persist across nodes.
package dataflow

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"github.com/BarrensZeppelin/dataflow/internal/maps"
	"github.com/BarrensZeppelin/dataflow/internal/slices"
)

var (
	ErrNilValue    = errors.New("nil abstract value")
	ErrConsumed    = errors.New("builder was already consumed by Build")
	ErrNoDOTOutput = errors.New("DOT output not supported")
)

// Value is the contract abstract values must satisfy to be tracked in a
// [Store]. Everything else about the value lattice is opaque to this
// package.
type Value[V any] interface {
	// LeastUpperBound joins the receiver with other. It must be
	// commutative, associative and idempotent, and monotone with respect
	// to the lattice's partial order; the termination of the fixpoint
	// iteration depends on it.
	LeastUpperBound(other V) V
	Equal(other V) bool
}

// State is the minimal contract a flow state must satisfy to be driven to a
// fixpoint by a generic solver. Store satisfies it for any value lattice.
type State[S any] interface {
	Copy() S
	LeastUpperBound(other S) S
	Equal(other S) bool
}

// Store is an immutable snapshot of the variable bindings valid at one
// program point.
//
// Derive an updated instance through [Store.ToBuilder]; start from scratch
// with [Empty]. Because stores never mutate they can be aliased freely, held
// across analysis steps and shared between concurrent readers.
type Store[V Value[V]] struct {
	contents map[Key]V
}

// Empty returns the store with no bindings. The zero value of Store is the
// canonical empty store, so separately obtained empty stores are
// interchangeable and compare equal.
func Empty[V Value[V]]() Store[V] {
	return Store[V]{}
}

// Get returns the value bound to the variable denoted by ref, normalized
// through [RefKey].
func (s Store[V]) Get(info *types.Info, ref ast.Expr) (V, bool) {
	v, found := s.contents[RefKey(info, ref)]
	return v, found
}

// Len returns the number of bound variables.
func (s Store[V]) Len() int {
	return len(s.contents)
}

// Copy returns the receiver: stores are immutable, so a snapshot needs no
// copying.
func (s Store[V]) Copy() Store[V] {
	return s
}

// LeastUpperBound joins two stores at a control-flow confluence point.
// Only variables bound in both stores survive: an unbound variable carries
// no information, and no information joined with anything is still no
// information. Variables bound on both sides get the pointwise join of
// their values.
func (s Store[V]) LeastUpperBound(other Store[V]) Store[V] {
	var contents map[Key]V
	for key, v := range s.contents {
		if ov, found := other.contents[key]; found {
			if contents == nil {
				contents = make(map[Key]V)
			}
			contents[key] = v.LeastUpperBound(ov)
		}
	}
	return Store[V]{contents}
}

// Equal reports structural equality: the same variables bound to equal
// values. The fixpoint engine detects convergence with it.
func (s Store[V]) Equal(other Store[V]) bool {
	if len(s.contents) != len(other.contents) {
		return false
	}
	for key, v := range s.contents {
		if ov, found := other.contents[key]; !found || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal: equal stores hash identically. Only keys
// contribute; the value lattice owes us equality but not hashability.
func (s Store[V]) Hash() uint64 {
	var h uint64
	for key := range s.contents {
		h ^= KeyHasher.Hash(key)
	}
	return h
}

func (s Store[V]) String() string {
	entries := slices.Map(maps.Keys(s.contents), func(key Key) string {
		return fmt.Sprintf("%v ↦ %v", key, s.contents[key])
	})
	sort.Strings(entries)
	return "[" + strings.Join(entries, ", ") + "]"
}

// CanAlias reports whether two references may alias. The store keeps no
// heap model, so the answer is always yes; a spurious true only makes the
// consuming analysis more conservative, never unsound.
func (s Store[V]) CanAlias(a, b ast.Expr) bool {
	return true
}

// HasDOTOutput reports whether the store can render itself as a DOT graph.
func (s Store[V]) HasDOTOutput() bool {
	return false
}

// DOTOutput panics with [ErrNoDOTOutput]: requesting an export that
// HasDOTOutput denies is a bug in the caller.
func (s Store[V]) DOTOutput() string {
	panic(ErrNoDOTOutput)
}

// Builder accumulates updates to a prototype store's bindings. It is the
// mutable working state of a single transfer-function invocation: derive it
// with [Store.ToBuilder], apply updates, and freeze it exactly once with
// [Builder.Build]. A builder must not be shared between callers or reused
// after Build.
type Builder[V Value[V]] struct {
	contents map[Key]V
}

// ToBuilder returns a builder seeded with an independent copy of the
// store's bindings. Mutations of the builder are never visible through the
// store.
func (s Store[V]) ToBuilder() *Builder[V] {
	contents := make(map[Key]V, len(s.contents))
	for key, v := range s.contents {
		contents[key] = v
	}
	return &Builder[V]{contents}
}

// Set binds the variable denoted by ref to value, replacing any previous
// binding for the same declaration. Binding a nil value panics with
// [ErrNilValue]: absence of information is expressed by not binding at all.
func (b *Builder[V]) Set(info *types.Info, ref ast.Expr, value V) *Builder[V] {
	if b.contents == nil {
		panic(ErrConsumed)
	}
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Invalid:
		panic(ErrNilValue)
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.Slice:
		if rv.IsNil() {
			panic(ErrNilValue)
		}
	}
	b.contents[RefKey(info, ref)] = value
	return b
}

// Get returns the value currently bound to the variable denoted by ref.
func (b *Builder[V]) Get(info *types.Info, ref ast.Expr) (V, bool) {
	if b.contents == nil {
		panic(ErrConsumed)
	}
	v, found := b.contents[RefKey(info, ref)]
	return v, found
}

// Build freezes the bindings into a new immutable store. The builder is
// consumed; the working map is handed over instead of copied, so any later
// use of the builder panics with [ErrConsumed].
func (b *Builder[V]) Build() Store[V] {
	if b.contents == nil {
		panic(ErrConsumed)
	}
	contents := b.contents
	b.contents = nil
	if len(contents) == 0 {
		return Empty[V]()
	}
	return Store[V]{contents}
}
