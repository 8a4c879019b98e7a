// Package ast provides the syntax-tree view consumed by the dead-code engine.
//
// The engine never touches a concrete parser. It sees a Node interface that
// exposes a closed Kind enum, a source Location, field and child access, and
// literal extraction for symbols and strings. The treesitter subpackage
// implements Provider on top of pkg/parser.
//
// Usage:
//
//	provider := treesitter.New()
//	defer provider.Close()
//
//	file, err := provider.Parse("app/models/user.rb")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	for _, child := range file.Root().NamedChildren() {
//	    fmt.Println(child.Kind(), child.Location())
//	}
package ast
