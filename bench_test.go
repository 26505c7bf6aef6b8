package dataflow_test

import (
	"fmt"
	"go/ast"
	"strings"
	"testing"
)

var blackHole any

// benchSource generates a function with n used local variables.
func benchSource(n int) string {
	var sb strings.Builder
	sb.WriteString("package main\n\nfunc main() {\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "\tv%d := %d\n", i, i)
	}
	sb.WriteString("\tprintln(")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "v%d", i)
	}
	sb.WriteString(")\n}\n")
	return sb.String()
}

func BenchmarkStore(b *testing.B) {
	for _, size := range [...]int{16, 256} {
		info, vars := loadVars(b, benchSource(size))

		bindings1 := map[*ast.Ident]cval{}
		bindings2 := map[*ast.Ident]cval{}
		for i := 0; i < size; i++ {
			ref := vars[fmt.Sprintf("v%d", i)]
			bindings1[ref] = c(i)
			// Half the bindings disagree, so the join produces a mix of
			// constants and ⊤.
			bindings2[ref] = c(i * (i % 2))
		}
		s1 := makeStore(info, bindings1)
		s2 := makeStore(info, bindings2)

		b.Run(fmt.Sprintf("LeastUpperBound(vars=%d)", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				blackHole = s1.LeastUpperBound(s2)
			}
		})

		b.Run(fmt.Sprintf("BuilderRoundTrip(vars=%d)", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				blackHole = s1.ToBuilder().Build()
			}
		})
	}
}
