// Package expr parses and evaluates the arithmetic expressions of
// calculated vectors.  Every value is a vector of float64; a vector of
// length one is a scalar and broadcasts against longer vectors.
package expr

// Node is an expression tree node.
type Node interface {
	exprNode()
}

type (
	Number struct {
		Value float64
	}
	Ident struct {
		Name string
	}
	Unary struct {
		Op      string
		Operand Node
	}
	Binary struct {
		Op  string
		LHS Node
		RHS Node
	}
	Call struct {
		Name string
		Args []Node
	}
)

func (*Number) exprNode() {}
func (*Ident) exprNode()  {}
func (*Unary) exprNode()  {}
func (*Binary) exprNode() {}
func (*Call) exprNode()   {}

// Variables returns the names of the variables referenced by n in order
// of first use.  Function names are not variables.
func Variables(n Node) []string {
	var out []string
	seen := make(map[string]bool)
	walk(n, func(id *Ident) {
		if !seen[id.Name] {
			seen[id.Name] = true
			out = append(out, id.Name)
		}
	})
	return out
}

func walk(n Node, fn func(*Ident)) {
	switch n := n.(type) {
	case *Ident:
		fn(n)
	case *Unary:
		walk(n.Operand, fn)
	case *Binary:
		walk(n.LHS, fn)
		walk(n.RHS, fn)
	case *Call:
		for _, a := range n.Args {
			walk(a, fn)
		}
	}
}
