package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

// Rake models Rakefiles and task libraries.
func Rake() deadcode.SendListener {
	return &plugin{
		name: "rake",
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreConstantsNamed("rake constant", "APP_RAKEFILE"),
			deadcode.IgnoreClassesInheritingFrom("rake task library", "Rake::TaskLib"),
			deadcode.IgnoreMethodsInClassesInheritingFrom("rake task library", "Rake::TaskLib"),
		},
	}
}
