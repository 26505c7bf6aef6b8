package dataflow

import (
	"go/ast"
	"go/types"
	"reflect"

	"github.com/BarrensZeppelin/pmmap"
	"golang.org/x/tools/go/ast/astutil"
)

// Key is the normalized identity of a reference tracked in a [Store].
// References to function-scoped variables are keyed by the variable's
// declaring [*types.Var], so every syntactic mention of one declaration
// collapses to a single key. Any other reference is keyed by the node
// itself.
type Key struct {
	obj *types.Var
	ref ast.Expr
}

// RefKey normalizes a reference to its identity key.
// Comparing reference nodes directly is not enough: distinct idents
// routinely denote the same variable, and same-named idents may denote
// different (shadowed) variables. go/types hands out one canonical
// *types.Var per declaration, which is exactly the identity we want.
func RefKey(info *types.Info, ref ast.Expr) Key {
	if id, ok := astutil.Unparen(ref).(*ast.Ident); ok {
		if obj, ok := localVar(info.ObjectOf(id)); ok {
			return Key{obj: obj}
		}
	}
	return Key{ref: ref}
}

// localVar extracts the declared object of a function-scoped variable
// (local, parameter, result or receiver). Fields and package-level
// variables don't qualify.
func localVar(obj types.Object) (*types.Var, bool) {
	v, ok := obj.(*types.Var)
	if !ok || v.IsField() {
		return nil, false
	}
	if pkg := v.Pkg(); pkg == nil || v.Parent() == pkg.Scope() {
		return nil, false
	}
	return v, true
}

func (k Key) String() string {
	if k.obj != nil {
		return k.obj.Name()
	}
	return types.ExprString(k.ref)
}

type keyHasher struct{}

func (keyHasher) Hash(k Key) uint64 {
	if k.obj != nil {
		return uint64(reflect.ValueOf(k.obj).Pointer())
	}
	return uint64(reflect.ValueOf(k.ref).Pointer())
}

func (keyHasher) Equal(a, b Key) bool {
	return a == b
}

// KeyHasher hashes keys for use in persistent maps.
var KeyHasher pmmap.Hasher[Key] = keyHasher{}
