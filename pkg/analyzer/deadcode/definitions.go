package deadcode

import (
	"regexp"
	"strings"

	"github.com/panbanda/reaper/pkg/ast"
)

// sigOverride matches Sorbet signatures declaring an override.
var sigOverride = regexp.MustCompile(`\b(override|overridable)\b`)

var visibilityCalls = map[string]Visibility{
	"private":   VisibilityPrivate,
	"protected": VisibilityProtected,
	"public":    VisibilityPublic,

	// the instance copies made by module_function are private
	"module_function": VisibilityPrivate,
}

var accessorKinds = map[string]Kind{
	"attr_reader":   KindAttrReader,
	"attr_writer":   KindAttrWriter,
	"attr_accessor": KindAttrAccessor,
}

// definitionCollector walks a syntax tree and records every class, module,
// method, accessor and constant declaration.
type definitionCollector struct {
	scope      *ScopeTracker
	defs       []*Definition
	pendingSig string
}

// CollectDefinitions returns the definitions declared in file, in source order.
// A parse error node anywhere in the tree fails the whole file with
// ErrUnexpectedNode.
func CollectDefinitions(file ast.File) ([]*Definition, error) {
	c := &definitionCollector{scope: NewScopeTracker()}
	if err := c.visit(file.Root()); err != nil {
		return nil, err
	}
	return c.defs, nil
}

func (c *definitionCollector) visit(n ast.Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case ast.KindError:
		return unexpectedNode(n)
	case ast.KindClass:
		return c.visitNamespace(n, KindClass)
	case ast.KindModule:
		return c.visitNamespace(n, KindModule)
	case ast.KindSingletonClass:
		return c.visitSingletonClass(n)
	case ast.KindMethod:
		_, err := c.visitMethod(n, false)
		return err
	case ast.KindSingletonMethod:
		_, err := c.visitMethod(n, true)
		return err
	case ast.KindCall:
		if handled, err := c.visitCall(n); handled || err != nil {
			return err
		}
	case ast.KindIdentifier:
		// bare `private` / `protected` / `public` in a class body
		if v, ok := visibilityCalls[n.Text()]; ok && !c.scope.InMethod() {
			c.scope.SetVisibility(v)
		}
		return nil
	case ast.KindAssignment, ast.KindOperatorAssignment:
		c.visitConstantAssignment(n.Field("left"))
	}
	return c.visitChildren(n)
}

func (c *definitionCollector) visitChildren(n ast.Node) error {
	for _, child := range n.NamedChildren() {
		if err := c.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *definitionCollector) add(def *Definition) *Definition {
	if def.Owner == nil {
		def.Owner = c.scope.Owner()
	}
	if !def.Opaque {
		def.Opaque = c.scope.Opaque()
	}
	def.Status = StatusUnknown
	c.defs = append(c.defs, def)
	return def
}

func (c *definitionCollector) visitNamespace(n ast.Node, kind Kind) error {
	nameNode := n.Field("name")
	superclass := superclassName(n.Field("superclass"))

	end := nameNode
	if sc := n.Field("superclass"); sc != nil {
		end = sc
	}
	loc := n.Location()
	if end != nil {
		loc = ast.Span(n.Location(), end.Location())
	}

	owner := c.scope.Owner()
	var self *Owner
	if segments, rooted, ok := ast.ConstantPath(nameNode); ok {
		self = c.scope.PushNamespace(segments, rooted, kind, superclass)
	} else {
		self = c.scope.PushOpaque(trailingConstant(nameNode), kind, superclass)
	}

	def := &Definition{
		Name:          self.Name,
		QualifiedName: self.QualifiedName,
		Kind:          kind,
		Location:      loc,
		Owner:         owner,
		Opaque:        self.Opaque,
		Status:        StatusUnknown,
	}
	if kind == KindClass {
		def.Superclass = superclass
	}
	c.defs = append(c.defs, def)

	c.pendingSig = ""
	err := c.visitBody(n, nameNode)
	c.scope.Pop()
	c.pendingSig = ""
	return err
}

// visitBody visits the children of a class or module, skipping its name.
func (c *definitionCollector) visitBody(n, nameNode ast.Node) error {
	for _, child := range n.NamedChildren() {
		if nameNode != nil && sameNode(child, nameNode) {
			continue
		}
		if err := c.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *definitionCollector) visitSingletonClass(n ast.Node) error {
	value := n.Field("value")
	c.scope.PushSingleton(value != nil && value.Kind() == ast.KindSelf)
	err := c.visitBody(n, value)
	c.scope.Pop()
	return err
}

func (c *definitionCollector) visitMethod(n ast.Node, singleton bool) (*Definition, error) {
	nameNode := n.Field("name")
	if nameNode == nil {
		return nil, c.visitChildren(n)
	}

	end := nameNode
	if params := n.Field("parameters"); params != nil {
		end = params
	}

	kind := KindMethod
	opaque := false
	if singleton || c.scope.InSingleton() {
		kind = KindSingletonMethod
	}
	if singleton {
		if obj := n.Field("object"); obj != nil && obj.Kind() != ast.KindSelf && obj.Kind() != ast.KindConstant {
			opaque = true
		}
	}

	name := nameNode.Text()
	def := c.add(&Definition{
		Name:          name,
		QualifiedName: c.scope.Qualify(name),
		Kind:          kind,
		Location:      ast.Span(n.Location(), end.Location()),
		Opaque:        opaque,
		Visibility:    c.scope.Visibility(),
		Override:      c.takeOverride(),
	})

	c.scope.EnterMethod()
	err := c.visitBody(n, nameNode)
	c.scope.ExitMethod()
	return def, err
}

// takeOverride consumes a pending Sorbet sig and reports whether it marked
// the next method as an override.
func (c *definitionCollector) takeOverride() bool {
	sig := c.pendingSig
	c.pendingSig = ""
	return sig != "" && sigOverride.MatchString(sig)
}

// visitCall handles definition macros. It reports handled=true when the call's
// children must not be visited again.
func (c *definitionCollector) visitCall(n ast.Node) (bool, error) {
	recv := n.Field("receiver")
	if recv != nil && recv.Kind() != ast.KindSelf {
		return false, nil
	}
	method := n.Field("method")
	if method == nil {
		return false, nil
	}
	name := method.Text()
	args := argumentNodes(n)

	if kind, ok := accessorKinds[name]; ok {
		c.collectAccessors(kind, args)
		return false, nil
	}

	switch name {
	case "sig":
		if recv == nil && !c.scope.InMethod() {
			c.pendingSig = n.Text()
			return true, nil
		}
	case "define_method", "define_singleton_method":
		if len(args) > 0 {
			if value, ok := ast.LiteralName(args[0]); ok {
				kind := KindMethod
				if name == "define_singleton_method" || c.scope.InSingleton() {
					kind = KindSingletonMethod
				}
				c.add(&Definition{
					Name:          value,
					QualifiedName: c.scope.Qualify(value),
					Kind:          kind,
					Location:      args[0].Location(),
					Visibility:    c.scope.Visibility(),
					Override:      c.takeOverride(),
				})
			}
		}
	case "private", "protected", "public", "module_function":
		if c.scope.InMethod() {
			return false, nil
		}
		v := visibilityCalls[name]
		if len(args) == 0 {
			c.scope.SetVisibility(v)
			return true, nil
		}
		return true, c.applyVisibility(n, args, v, false)
	case "private_class_method", "public_class_method":
		v := VisibilityPrivate
		if name == "public_class_method" {
			v = VisibilityPublic
		}
		return true, c.applyVisibility(n, args, v, true)
	}
	return false, nil
}

func (c *definitionCollector) collectAccessors(kind Kind, args []ast.Node) {
	for _, arg := range args {
		value, ok := ast.LiteralName(arg)
		if !ok {
			continue
		}
		name := value
		if kind == KindAttrWriter {
			name += "="
		}
		c.add(&Definition{
			Name:          name,
			QualifiedName: c.scope.Qualify(name),
			Kind:          kind,
			Location:      arg.Location(),
			Visibility:    c.scope.Visibility(),
			Override:      c.takeOverride(),
		})
	}
}

// applyVisibility handles `private def x`, `private :x, :y` and
// `private attr_reader :x`. Symbol arguments update definitions already
// collected in the current namespace.
func (c *definitionCollector) applyVisibility(call ast.Node, args []ast.Node, v Visibility, singletonOnly bool) error {
	for _, arg := range args {
		if value, ok := ast.LiteralName(arg); ok {
			c.setVisibility(value, v, singletonOnly)
			continue
		}
		before := len(c.defs)
		if err := c.visit(arg); err != nil {
			return err
		}
		for _, def := range c.defs[before:] {
			if def.Kind.IsMethodLike() {
				def.Visibility = v
			}
		}
	}
	if block := call.Field("block"); block != nil {
		return c.visit(block)
	}
	return nil
}

func (c *definitionCollector) setVisibility(name string, v Visibility, singletonOnly bool) {
	owner := c.scope.Owner()
	for i := len(c.defs) - 1; i >= 0; i-- {
		def := c.defs[i]
		if def.Owner != owner || !def.Kind.IsMethodLike() {
			continue
		}
		if singletonOnly && def.Kind != KindSingletonMethod {
			continue
		}
		for _, n := range def.Names() {
			if n == name {
				def.Visibility = v
				return
			}
		}
	}
}

// visitConstantAssignment records FOO = ..., Foo::BAR = ... and A, B = ...
// outside method bodies.
func (c *definitionCollector) visitConstantAssignment(left ast.Node) {
	if left == nil || c.scope.InMethod() {
		return
	}
	switch left.Kind() {
	case ast.KindConstant:
		c.add(&Definition{
			Name:          left.Text(),
			QualifiedName: c.scope.Qualify(left.Text()),
			Kind:          KindConstant,
			Location:      left.Location(),
		})
	case ast.KindScopeResolution:
		segments, rooted, ok := ast.ConstantPath(left)
		if ok {
			c.add(&Definition{
				Name:          segments[len(segments)-1],
				QualifiedName: c.scope.QualifyPath(segments, rooted),
				Kind:          KindConstant,
				Location:      left.Location(),
			})
			return
		}
		if tail := left.Field("name"); tail != nil && tail.Kind() == ast.KindConstant {
			c.add(&Definition{
				Name:          tail.Text(),
				QualifiedName: c.scope.Qualify(OpaqueName + "::" + tail.Text()),
				Kind:          KindConstant,
				Location:      left.Location(),
				Opaque:        true,
			})
		}
	case ast.KindLeftAssignmentList:
		for _, target := range left.NamedChildren() {
			c.visitConstantAssignment(target)
		}
	}
}

// superclassName renders the superclass clause of a class. Non-literal
// expressions such as Struct.new(:a) become OpaqueName.
func superclassName(sc ast.Node) string {
	if sc == nil {
		return ""
	}
	children := sc.NamedChildren()
	if len(children) == 0 {
		return ""
	}
	expr := children[0]
	// versioned bases such as ActiveRecord::Migration[7.1]
	if expr.Kind() == ast.KindElementReference {
		expr = expr.Field("object")
	}
	segments, _, ok := ast.ConstantPath(expr)
	if !ok {
		return OpaqueName
	}
	return strings.Join(segments, "::")
}

// trailingConstant returns the last segment of a non-literal namespace name.
func trailingConstant(n ast.Node) string {
	if n == nil {
		return ""
	}
	if tail := n.Field("name"); tail != nil && tail.Kind() == ast.KindConstant {
		return tail.Text()
	}
	return ""
}

// argumentNodes returns the named children of a call's argument list.
func argumentNodes(call ast.Node) []ast.Node {
	args := call.Field("arguments")
	if args == nil {
		return nil
	}
	var out []ast.Node
	for _, arg := range args.NamedChildren() {
		if arg.Kind() == ast.KindComment {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// sameNode reports whether two wrappers denote the same syntax node.
func sameNode(a, b ast.Node) bool {
	return a.Type() == b.Type() && a.Location() == b.Location()
}
