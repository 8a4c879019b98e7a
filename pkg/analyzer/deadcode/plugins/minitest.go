package plugins

import (
	"strings"

	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
)

// Minitest models test classes, whose test_* methods and lifecycle hooks are
// discovered reflectively by the runner.
func Minitest() deadcode.SendListener {
	return &plugin{
		name: "minitest",
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesNamed("test class", "*Test"),
			deadcode.IgnoreClassesInheritingFrom("test class", "Minitest::Test", "Minitest::Spec", "*::TestCase"),
			deadcode.PredicateRule{Reason: "test method", Fn: isMinitestMethod},
			deadcode.IgnoreMethodsNamed("test hook", "after_all", "around", "around_all", "before_all", "setup", "teardown"),
		},
	}
}

func isMinitestMethod(def *deadcode.Definition) bool {
	if def.Kind != deadcode.KindMethod || !strings.HasPrefix(def.Name, "test_") || def.Owner == nil {
		return false
	}
	return strings.HasSuffix(def.Owner.Name, "Test") ||
		strings.HasPrefix(def.Owner.Superclass, "Minitest::") ||
		strings.HasSuffix(def.Owner.Superclass, "::TestCase")
}
