package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

// ActionMailer models mailers and mailer previews. Mailer methods are
// invoked through class-level method_missing (UserMailer.welcome.deliver_later),
// so every public method of a mailer is an entry point.
func ActionMailer() deadcode.SendListener {
	return &plugin{
		name:     "actionmailer",
		triggers: union(controllerCallbacks, []string{"default"}),
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) || send.Name == "default" {
				return
			}
			referenceArgs(send, emit)
			referenceConditions(send, emit)
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("mailer", "ApplicationMailer", "ActionMailer::Base", "ActionMailer::Preview"),
			deadcode.PredicateRule{Reason: "mailer action", Fn: isMailerAction},
		},
	}
}

func isMailerAction(def *deadcode.Definition) bool {
	if def.Kind != deadcode.KindMethod || def.Visibility != deadcode.VisibilityPublic || def.Owner == nil {
		return false
	}
	switch def.Owner.Superclass {
	case "ApplicationMailer", "ActionMailer::Base", "ActionMailer::Preview":
		return true
	}
	return false
}
