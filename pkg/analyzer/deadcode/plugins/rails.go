package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

// Rails models application wiring loaded by the framework rather than by
// application code: the Application class, engines, railties and the
// constants set by bin/ scripts. Helper modules are mixed into views
// implicitly.
func Rails() deadcode.SendListener {
	return &plugin{
		name:     "rails",
		triggers: []string{"helper"},
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			// helper :users loads UsersHelper
			for _, lit := range send.LiteralArgs() {
				emit.ReferenceConstant(camelize(lit.Value)+"Helper", lit.Node.Location())
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("rails application", "Rails::Application", "Rails::Engine", "Rails::Railtie"),
			deadcode.IgnoreConstantsNamed("rails boot constant", "APP_PATH", "ENGINE_PATH", "ENGINE_ROOT"),
			deadcode.IgnoreModulesNamed("rails helper", "*Helper"),
		},
	}
}
