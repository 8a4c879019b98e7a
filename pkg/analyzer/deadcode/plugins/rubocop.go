package plugins

import (
	"regexp"
	"strings"

	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/ast"
)

// nodePatternCall matches `#method_name` predicate calls inside a node pattern.
var nodePatternCall = regexp.MustCompile(`#([a-z_][A-Za-z0-9_]*[?!]?)`)

// RuboCop models custom cops: node callbacks, autocorrection hooks and node
// pattern macros that call back into the cop.
func RuboCop() deadcode.SendListener {
	return &plugin{
		name:     "rubocop",
		triggers: []string{"def_node_matcher", "def_node_search"},
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			pos := send.Positional()
			if len(pos) < 2 {
				return
			}
			pattern, ok := ast.StringValue(pos[1])
			if !ok {
				return
			}
			for _, m := range nodePatternCall.FindAllStringSubmatch(pattern, -1) {
				emit.ReferenceMethod(m[1], pos[1].Location())
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.PredicateRule{Reason: "cop", Fn: isCop},
			deadcode.PredicateRule{Reason: "cop callback", Fn: isCopCallback},
			deadcode.PredicateRule{Reason: "cop constant", Fn: isCopConstant},
		},
	}
}

var copHooks = set("autocorrect", "external_dependency_checksum", "relevant_file?", "support_autocorrect?", "on_new_investigation", "on_investigation_end")

// inheritsCop recognizes cop base classes. A bare Base or Cop only counts
// inside the RuboCop namespace, where it resolves to RuboCop::Cop::Base.
func inheritsCop(superclass, qualified string) bool {
	switch superclass {
	case "RuboCop::Cop::Base", "RuboCop::Cop::Cop":
		return true
	case "Base", "Cop":
		return strings.HasPrefix(qualified, "RuboCop::")
	}
	return false
}

func isCop(def *deadcode.Definition) bool {
	return def.Kind == deadcode.KindClass && inheritsCop(def.Superclass, def.QualifiedName)
}

func isCopCallback(def *deadcode.Definition) bool {
	if !def.Kind.IsMethodLike() || def.Owner == nil || !inheritsCop(def.Owner.Superclass, def.Owner.QualifiedName) {
		return false
	}
	return strings.HasPrefix(def.Name, "on_") || strings.HasPrefix(def.Name, "after_") || copHooks[def.Name]
}

func isCopConstant(def *deadcode.Definition) bool {
	if def.Kind != deadcode.KindConstant || def.Owner == nil || !inheritsCop(def.Owner.Superclass, def.Owner.QualifiedName) {
		return false
	}
	return def.Name == "MSG" || def.Name == "RESTRICT_ON_SEND" || strings.HasPrefix(def.Name, "MSG_")
}
