package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

var jobCallbacks = []string{
	"after_enqueue",
	"after_perform",
	"around_enqueue",
	"around_perform",
	"before_enqueue",
	"before_perform",
}

// ActiveJob models background jobs, which are instantiated by the queue
// adapter and entered through perform.
func ActiveJob() deadcode.SendListener {
	return &plugin{
		name:     "activejob",
		triggers: jobCallbacks,
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			referenceArgs(send, emit)
			referenceConditions(send, emit)
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("job", "ApplicationJob", "ActiveJob::Base"),
			deadcode.IgnoreMethodsNamed("job entry point", "perform", "build_enumerator", "each_iteration"),
		},
	}
}
