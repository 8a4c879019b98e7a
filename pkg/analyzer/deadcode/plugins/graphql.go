package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

// GraphQL models graphql-ruby schemas. A field resolves to the method of the
// same name on the type unless method: or resolver_method: says otherwise.
func GraphQL() deadcode.SendListener {
	return &plugin{
		name:     "graphql",
		triggers: []string{"field", "argument"},
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			switch send.Name {
			case "field":
				referenceFirstArg(send, emit)
				referenceKeywords(send, emit, "method", "resolver_method", "hash_key")
			case "argument":
				referenceKeywords(send, emit, "prepare", "as")
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("graphql type", "GraphQL::Schema", "GraphQL::Schema::*", "Types::Base*", "Mutations::Base*", "Resolvers::Base*"),
			deadcode.IgnoreMethodsNamed("graphql hook",
				"authorized?",
				"coerce_input",
				"coerce_result",
				"graphql_name",
				"ready?",
				"resolve",
				"resolve_type",
				"subscribe",
				"unsubscribed",
				"visible?",
			),
		},
	}
}
