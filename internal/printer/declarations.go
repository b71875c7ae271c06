package printer

import (
	"fmt"
	"strings"

	"lilt/internal/jsast"
)

// GenerateDeclarations renders the .d.ts companion stub for a program:
// one declaration per exported binding, typed by the binding's
// annotation when the source gave one and `any` otherwise. An empty
// result means the module exports nothing.
func GenerateDeclarations(prog *jsast.Program) string {
	types := make(map[string]string)
	for _, s := range prog.Stmts {
		if v, ok := s.(*jsast.VarStmt); ok && v.Type != "" {
			types[v.Name] = v.Type
		}
	}

	var b strings.Builder
	for _, s := range prog.Stmts {
		exp, ok := s.(*jsast.ExportDecl)
		if !ok {
			continue
		}
		for _, n := range exp.Names {
			ty := types[n.Local]
			if ty == "" {
				ty = "any"
			}
			if n.Exported == n.Local {
				fmt.Fprintf(&b, "export declare const %s: %s;\n", n.Local, ty)
				continue
			}
			fmt.Fprintf(&b, "declare const %s: %s;\nexport { %s as %s };\n",
				n.Local, ty, n.Local, n.Exported)
		}
	}
	return b.String()
}
