package deadcode

import (
	"github.com/panbanda/reaper/pkg/ast"
)

// logicalOperators are keywords, not method sends.
var logicalOperators = map[string]bool{
	"&&":  true,
	"||":  true,
	"and": true,
	"or":  true,
}

var unaryMethods = map[string]string{
	"-":   "-@",
	"+":   "+@",
	"!":   "!",
	"not": "!",
	"~":   "~",
}

// referenceCollector walks a syntax tree and records every name that could
// resolve to a definition, dispatching call sites to send listeners.
type referenceCollector struct {
	scope    *ScopeTracker
	registry *Registry
	refs     []Reference
}

// CollectReferences returns the references found in file in source order,
// including those synthesized by reg's listeners. reg may be nil.
func CollectReferences(file ast.File, reg *Registry) ([]Reference, error) {
	c := &referenceCollector{scope: NewScopeTracker(), registry: reg}
	if err := c.visit(file.Root()); err != nil {
		return nil, err
	}
	return c.refs, nil
}

func (c *referenceCollector) method(name string, n ast.Node) {
	c.refs = append(c.refs, Reference{Name: name, Kind: RefMethod, Location: n.Location()})
}

func (c *referenceCollector) constant(name string, n ast.Node) {
	c.refs = append(c.refs, Reference{Name: name, Kind: RefConstant, Location: n.Location()})
}

func (c *referenceCollector) visit(n ast.Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case ast.KindError:
		return unexpectedNode(n)
	case ast.KindClass, ast.KindModule:
		return c.visitNamespace(n)
	case ast.KindSingletonClass:
		return c.visitSingletonClass(n)
	case ast.KindMethod, ast.KindSingletonMethod:
		return c.visitMethod(n)
	case ast.KindParameters:
		return c.visitParameters(n)
	case ast.KindCall:
		return c.visitCall(n)
	case ast.KindIdentifier:
		c.method(n.Text(), n)
		return nil
	case ast.KindConstant:
		c.constant(n.Text(), n)
		return nil
	case ast.KindScopeResolution:
		return c.visitScopeResolution(n)
	case ast.KindAssignment:
		if err := c.visitTarget(n.Field("left"), false); err != nil {
			return err
		}
		return c.visit(n.Field("right"))
	case ast.KindOperatorAssignment:
		if err := c.visitTarget(n.Field("left"), true); err != nil {
			return err
		}
		return c.visit(n.Field("right"))
	case ast.KindElementReference:
		c.method("[]", n)
	case ast.KindBinary:
		if op := n.Field("operator"); op != nil && !logicalOperators[op.Text()] {
			c.method(op.Text(), op)
			if op.Text() == "!=" {
				c.method("==", op)
			}
		}
	case ast.KindUnary:
		if op := n.Field("operator"); op != nil {
			if name, ok := unaryMethods[op.Text()]; ok {
				c.method(name, op)
			}
		}
	case ast.KindAlias:
		// alias new old: only the old name is used
		if old := n.Field("alias"); old != nil {
			c.method(methodNameOf(old), old)
		}
		return nil
	case ast.KindPair:
		// call(token:) reads token
		if key := n.Field("key"); key != nil && n.Field("value") == nil && key.Kind() == ast.KindHashKeySymbol {
			c.method(key.Text(), key)
		}
	case ast.KindBlockArgument:
		for _, child := range n.NamedChildren() {
			if name, ok := ast.SymbolValue(child); ok {
				c.method(name, child)
				return nil
			}
		}
	}
	return c.visitChildren(n)
}

func (c *referenceCollector) visitChildren(n ast.Node) error {
	for _, child := range n.NamedChildren() {
		if err := c.visit(child); err != nil {
			return err
		}
	}
	return nil
}

// visitExcept visits the children of n other than skip.
func (c *referenceCollector) visitExcept(n, skip ast.Node) error {
	for _, child := range n.NamedChildren() {
		if skip != nil && sameNode(child, skip) {
			continue
		}
		if err := c.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *referenceCollector) visitNamespace(n ast.Node) error {
	nameNode := n.Field("name")
	superclass := superclassName(n.Field("superclass"))
	kind := KindModule
	if n.Kind() == ast.KindClass {
		kind = KindClass
	}

	// the namespace being defined is not a reference to itself, but the
	// segments leading up to it are
	segments, rooted, ok := ast.ConstantPath(nameNode)
	if nameNode != nil && nameNode.Kind() == ast.KindScopeResolution {
		if err := c.visit(nameNode.Field("scope")); err != nil {
			return err
		}
	}
	if ok {
		c.scope.PushNamespace(segments, rooted, kind, superclass)
	} else {
		c.scope.PushOpaque(trailingConstant(nameNode), kind, superclass)
	}
	err := c.visitExcept(n, nameNode)
	c.scope.Pop()
	return err
}

func (c *referenceCollector) visitSingletonClass(n ast.Node) error {
	value := n.Field("value")
	if err := c.visit(value); err != nil {
		return err
	}
	c.scope.PushSingleton(value != nil && value.Kind() == ast.KindSelf)
	err := c.visitExcept(n, value)
	c.scope.Pop()
	return err
}

func (c *referenceCollector) visitMethod(n ast.Node) error {
	nameNode := n.Field("name")
	c.scope.EnterMethod()
	err := c.visitExcept(n, nameNode)
	c.scope.ExitMethod()
	return err
}

// visitParameters skips parameter names and visits default values.
func (c *referenceCollector) visitParameters(n ast.Node) error {
	for _, param := range n.NamedChildren() {
		switch param.Kind() {
		case ast.KindIdentifier, ast.KindNamedParameter:
			continue
		case ast.KindOptionalParameter, ast.KindKeywordParameter:
			if err := c.visit(param.Field("value")); err != nil {
				return err
			}
		default:
			if param.Type() == "destructured_parameter" {
				continue
			}
			if err := c.visit(param); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *referenceCollector) visitScopeResolution(n ast.Node) error {
	if err := c.visit(n.Field("scope")); err != nil {
		return err
	}
	name := n.Field("name")
	if name == nil {
		return nil
	}
	if name.Kind() == ast.KindConstant {
		c.constant(name.Text(), name)
	} else {
		c.method(name.Text(), name)
	}
	return nil
}

// visitTarget handles the left-hand side of an assignment. Local variables
// and constants being assigned are not references; attribute and index
// writes are sends of the writer method. Compound assignments also read.
func (c *referenceCollector) visitTarget(left ast.Node, compound bool) error {
	if left == nil {
		return nil
	}
	switch left.Kind() {
	case ast.KindIdentifier:
		return nil
	case ast.KindConstant:
		if compound {
			c.constant(left.Text(), left)
		}
		return nil
	case ast.KindScopeResolution:
		if compound {
			return c.visitScopeResolution(left)
		}
		return c.visit(left.Field("scope"))
	case ast.KindCall:
		if err := c.visit(left.Field("receiver")); err != nil {
			return err
		}
		if method := left.Field("method"); method != nil {
			if compound {
				c.method(method.Text(), method)
			}
			c.method(method.Text()+"=", method)
		}
		return nil
	case ast.KindElementReference:
		if compound {
			c.method("[]", left)
		}
		c.method("[]=", left)
		return c.visitChildren(left)
	case ast.KindLeftAssignmentList:
		for _, target := range left.NamedChildren() {
			if err := c.visitTarget(target, compound); err != nil {
				return err
			}
		}
		return nil
	}
	// instance, class and global variables, splats and destructuring
	return c.visitChildren(left)
}

func (c *referenceCollector) visitCall(n ast.Node) error {
	recv := n.Field("receiver")
	methodNode := n.Field("method")

	name := "call"
	if methodNode != nil {
		name = methodNode.Text()
		c.method(name, methodNode)
	} else {
		// recv.() is sugar for recv.call()
		c.method(name, n)
	}

	if c.registry.Handles(name) {
		c.dispatch(n, name, recv)
	}

	if err := c.visit(recv); err != nil {
		return err
	}
	if err := c.visit(n.Field("arguments")); err != nil {
		return err
	}
	return c.visit(n.Field("block"))
}

func (c *referenceCollector) dispatch(n ast.Node, name string, recv ast.Node) {
	args := argumentNodes(n)
	block := n.Field("block")
	if block == nil && len(args) > 0 && args[len(args)-1].Kind() == ast.KindBlockArgument {
		block = args[len(args)-1]
	}
	send := &Send{
		Name:        name,
		Receiver:    recv,
		Args:        args,
		Block:       block,
		Location:    n.Location(),
		Owner:       c.scope.Owner(),
		InSingleton: c.scope.InSingleton(),
		InMethod:    c.scope.InMethod(),
	}
	c.registry.Dispatch(send, func(l SendListener) Emitter {
		return &emitter{c: c, source: l.Name()}
	})
}

// emitter tags listener-produced references with the listener name.
type emitter struct {
	c      *referenceCollector
	source string
}

func (e *emitter) ReferenceMethod(name string, loc ast.Location) {
	if name == "" {
		return
	}
	e.c.refs = append(e.c.refs, Reference{Name: name, Kind: RefMethod, Location: loc, Source: e.source})
}

func (e *emitter) ReferenceConstant(name string, loc ast.Location) {
	if name == "" {
		return
	}
	e.c.refs = append(e.c.refs, Reference{Name: name, Kind: RefConstant, Location: loc, Source: e.source})
}

// methodNameOf returns the method name written by an alias operand, which may
// be a bare identifier, an operator, a setter or a symbol.
func methodNameOf(n ast.Node) string {
	if name, ok := ast.SymbolValue(n); ok {
		return name
	}
	return n.Text()
}
