package plugins

import (
	"strings"

	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/ast"
)

var controllerCallbacks = []string{
	"after_action",
	"append_after_action",
	"append_around_action",
	"append_before_action",
	"around_action",
	"before_action",
	"prepend_after_action",
	"prepend_around_action",
	"prepend_before_action",
	"skip_after_action",
	"skip_around_action",
	"skip_before_action",
}

var controllerMacros = []string{"helper_method", "rescue_from", "layout"}

// ActionPack models Rails controllers. Public controller methods are actions
// reached through routes, and callbacks name their targets with symbols.
func ActionPack() deadcode.SendListener {
	callbacks := set(controllerCallbacks...)
	return &plugin{
		name:     "actionpack",
		triggers: union(controllerCallbacks, controllerMacros),
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			switch {
			case callbacks[send.Name]:
				referenceArgs(send, emit)
				referenceConditions(send, emit)
			case send.Name == "helper_method":
				referenceArgs(send, emit)
			case send.Name == "rescue_from":
				referenceKeywords(send, emit, "with")
			case send.Name == "layout":
				// layout :pick_layout names a method; layout "admin" names a template
				for _, lit := range send.LiteralArgs() {
					if lit.Node.Kind() != ast.KindString {
						emit.ReferenceMethod(lit.Value, lit.Node.Location())
					}
				}
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("controller", "ApplicationController", "ActionController::Base", "ActionController::API"),
			deadcode.PredicateRule{Reason: "controller action", Fn: isControllerAction},
		},
	}
}

// isControllerAction matches public instance methods of classes whose
// superclass looks like a controller.
func isControllerAction(def *deadcode.Definition) bool {
	if def.Kind != deadcode.KindMethod || def.Visibility != deadcode.VisibilityPublic || def.Owner == nil {
		return false
	}
	return strings.HasSuffix(def.Owner.Superclass, "Controller") ||
		strings.HasSuffix(def.Owner.Superclass, "Controller::Base") ||
		strings.HasSuffix(def.Owner.Superclass, "Controller::API")
}
