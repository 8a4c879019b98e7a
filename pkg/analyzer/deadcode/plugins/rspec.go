package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

// RSpec models specs. Message expectations name the stubbed method with a
// symbol (`expect(x).to receive(:call)`), and matcher DSL blocks define
// methods the runner calls.
func RSpec() deadcode.SendListener {
	return &plugin{
		name:     "rspec",
		triggers: []string{"receive", "have_received", "receive_messages", "respond_to", "receive_message_chain"},
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			switch send.Name {
			case "receive_messages":
				for _, kw := range send.Keywords() {
					emit.ReferenceMethod(kw.Key, kw.Node.Location())
				}
			default:
				referenceArgs(send, emit)
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesNamed("spec class", "*Spec"),
			deadcode.IgnoreMethodsNamed("rspec hook",
				"after_setup",
				"after_teardown",
				"before_setup",
				"before_teardown",
				"description",
				"failure_message",
				"failure_message_when_negated",
				"matches?",
				"does_not_match?",
			),
		},
	}
}
