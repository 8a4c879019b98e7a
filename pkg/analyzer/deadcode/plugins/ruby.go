package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

// reflectionMethods take the name of a method to call or inspect as their
// first argument.
var reflectionMethods = []string{
	"__send__",
	"instance_method",
	"method",
	"method_defined?",
	"private_method_defined?",
	"protected_method_defined?",
	"public_instance_method",
	"public_method",
	"public_method_defined?",
	"public_send",
	"respond_to?",
	"send",
	"try",
	"try!",
}

// constantReflection take a constant name, possibly a "::" path.
var constantReflection = []string{"const_get", "const_defined?", "const_source_location"}

// lifecycleMethods are invoked by the interpreter itself or by core library
// protocols rather than by name in application code.
var lifecycleMethods = []string{
	"initialize",
	"initialize_copy",
	"method_missing",
	"respond_to_missing?",
	"to_s",
	"inspect",
	"==",
	"===",
	"eql?",
	"hash",
	"<=>",
	"each",
	"coerce",
	"to_str",
	"to_a",
	"to_ary",
	"to_hash",
	"to_proc",
	"marshal_dump",
	"marshal_load",
	"included",
	"extended",
	"inherited",
	"prepended",
	"method_added",
	"singleton_method_added",
	"const_missing",
}

// Ruby handles reflection in the core language. It is always active, and
// unlike framework macros it accepts any receiver, so obj.send(:name)
// references name.
func Ruby() deadcode.SendListener {
	constants := set(constantReflection...)
	return &plugin{
		name:     "ruby",
		triggers: union(reflectionMethods, constantReflection, []string{"alias_method"}),
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			switch {
			case constants[send.Name]:
				lits := send.LiteralArgs()
				if len(lits) > 0 {
					referenceConstantPath(lits[0].Value, lits[0].Node.Location(), emit)
				}
			case send.Name == "alias_method":
				// alias_method :new_name, :old_name
				if lits := send.LiteralArgs(); len(lits) == 2 {
					emit.ReferenceMethod(lits[1].Value, lits[1].Node.Location())
				}
			default:
				referenceFirstArg(send, emit)
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreMethodsNamed("ruby lifecycle", lifecycleMethods...),
		},
	}
}
