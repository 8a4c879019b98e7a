package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

var validationMacros = []string{"validate", "validates", "validates!", "validates_each"}

var validationCallbacks = []string{"before_validation", "after_validation"}

// validatesOptions are validates keys that configure the call rather than
// naming a validator class.
var validatesOptions = set("if", "unless", "on", "allow_nil", "allow_blank", "message", "strict", "except_on")

// ActiveModel models attributes, validations and validators.
func ActiveModel() deadcode.SendListener {
	return &plugin{
		name:     "activemodel",
		triggers: union([]string{"attribute"}, validationMacros, validationCallbacks),
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			if !implicitSelf(send) {
				return
			}
			switch send.Name {
			case "attribute":
				// attribute :nickname, :string defines both accessors
				if lits := send.LiteralArgs(); len(lits) > 0 {
					emit.ReferenceMethod(lits[0].Value, lits[0].Node.Location())
					emit.ReferenceMethod(lits[0].Value+"=", lits[0].Node.Location())
				}
			case "validates", "validates!":
				referenceArgs(send, emit)
				referenceValidators(send, emit)
			default:
				referenceArgs(send, emit)
				referenceConditions(send, emit)
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("validator", "ActiveModel::EachValidator", "ActiveModel::Validator"),
			deadcode.IgnoreMethodsInClassesInheritingFrom("validator", "ActiveModel::EachValidator", "ActiveModel::Validator"),
			deadcode.IgnoreMethodsNamed("active model hook", "persisted?", "validate_each"),
		},
	}
}

// referenceValidators turns `validates :email, presence: true, email: true`
// into references to PresenceValidator and EmailValidator, and conditions
// into method references.
func referenceValidators(send *deadcode.Send, emit deadcode.Emitter) {
	for _, kw := range send.Keywords() {
		switch {
		case kw.Key == "if" || kw.Key == "unless":
			referenceMethodValue(kw.Value, emit)
		case validatesOptions[kw.Key]:
		default:
			// Rails resolves each remaining key to a <Key>Validator class
			emit.ReferenceConstant(camelize(kw.Key)+"Validator", kw.Node.Location())
		}
	}
}
