package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
// Type references and identifiers are leaves and are not visited.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	// Declarations
	case *Unit:
		for _, t := range n.Types {
			Walk(v, t)
		}
	case *TypeDecl:
		for _, f := range n.Fields {
			Walk(v, f)
		}
		for _, m := range n.Methods {
			Walk(v, m)
		}
		for _, t := range n.Types {
			Walk(v, t)
		}
	case *FieldDecl:
		for _, value := range n.Values {
			if value != nil {
				Walk(v, value)
			}
		}
	case *MethodDecl:
		if n.Body != nil {
			Walk(v, n.Body)
		}

	// Statements
	case *Block:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *LocalDecl:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *ExprStmt:
		Walk(v, n.X)
	case *Try:
		Walk(v, n.Body)
		for _, c := range n.Catches {
			Walk(v, c)
		}
	case *Catch:
		Walk(v, n.Body)
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Throw:
		Walk(v, n.Value)

	// Expressions
	case *Conditional:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *FieldAccess:
		if n.Target != nil {
			Walk(v, n.Target)
		}
	case *MethodCall:
		if n.Target != nil {
			Walk(v, n.Target)
		}
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *New:
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *Cast:
		Walk(v, n.X)
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Literal, *Local, *This:
		// No children
	}
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
