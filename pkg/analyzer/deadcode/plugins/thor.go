package plugins

import (
	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/ast"
)

// Thor models command line apps built on thor, where every public method of a
// Thor subclass is a command.
func Thor() deadcode.SendListener {
	return &plugin{
		name:     "thor",
		triggers: []string{"default_command", "default_task", "map"},
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			if send.Name == "map" {
				// map %w[-v --version] => :version; keys need not be literal
				for _, arg := range send.Args {
					pairs := []ast.Node{arg}
					if arg.Kind() == ast.KindHash {
						pairs = arg.NamedChildren()
					}
					for _, pair := range pairs {
						if pair.Kind() == ast.KindPair {
							referenceMethodValue(pair.Field("value"), emit)
						}
					}
				}
				return
			}
			referenceFirstArg(send, emit)
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("thor command", "Thor", "Thor::Group"),
			deadcode.PredicateRule{Reason: "thor command", Fn: isThorCommand},
			deadcode.IgnoreMethodsNamed("thor hook", "exit_on_failure?"),
		},
	}
}

func isThorCommand(def *deadcode.Definition) bool {
	if def.Kind != deadcode.KindMethod || def.Visibility != deadcode.VisibilityPublic || def.Owner == nil {
		return false
	}
	return def.Owner.Superclass == "Thor" || def.Owner.Superclass == "Thor::Group"
}
