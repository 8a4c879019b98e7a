package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

var supportMacros = []string{
	"delegate",
	"delegate_missing_to",
	"set_callback",
	"skip_callback",
	"setup",
	"teardown",
}

var callbackKinds = set("before", "after", "around")

// ActiveSupport models core extensions used across Rails code: delegation,
// callback chains and ActiveSupport::TestCase hooks.
func ActiveSupport() deadcode.SendListener {
	return &plugin{
		name:     "activesupport",
		triggers: supportMacros,
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			switch send.Name {
			case "delegate":
				// delegate :name, :email, to: :user
				referenceArgs(send, emit)
				referenceKeywords(send, emit, "to")
			case "delegate_missing_to":
				referenceFirstArg(send, emit)
			case "set_callback", "skip_callback":
				// set_callback :save, :before, :normalize; the kind defaults
				// to :before when omitted
				lits := send.LiteralArgs()
				for i := 1; i < len(lits); i++ {
					if i == 1 && callbackKinds[lits[i].Value] {
						continue
					}
					emit.ReferenceMethod(lits[i].Value, lits[i].Node.Location())
				}
				referenceConditions(send, emit)
			case "setup", "teardown":
				referenceArgs(send, emit)
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("test case", "ActiveSupport::TestCase"),
			deadcode.IgnoreMethodsNamed("test hook", "setup", "teardown", "before_setup", "after_teardown"),
		},
	}
}
