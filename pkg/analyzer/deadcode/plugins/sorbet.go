package plugins

import (
	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/ast"
)

// Sorbet models sorbet-runtime: T::Struct props generate accessors, T::Enum
// values are looked up by serialized name, and abstract or override methods
// are flagged on the definition itself from their sig.
func Sorbet() deadcode.SendListener {
	return &plugin{
		name:     "sorbet",
		triggers: []string{"const", "prop"},
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) || send.InMethod {
				return
			}
			pos := send.Positional()
			if len(pos) == 0 {
				return
			}
			name, ok := ast.LiteralName(pos[0])
			if !ok {
				return
			}
			emit.ReferenceMethod(name, pos[0].Location())
			if send.Name == "prop" {
				emit.ReferenceMethod(name+"=", pos[0].Location())
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreConstantsInClassesInheritingFrom("enum value", "T::Enum"),
			deadcode.IgnoreClassesInheritingFrom("sorbet struct", "T::Struct", "T::ImmutableStruct", "T::InexactStruct"),
		},
	}
}
