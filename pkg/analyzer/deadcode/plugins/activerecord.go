package plugins

import "github.com/panbanda/reaper/pkg/analyzer/deadcode"

var recordCallbacks = []string{
	"after_commit",
	"after_create",
	"after_create_commit",
	"after_destroy",
	"after_destroy_commit",
	"after_find",
	"after_initialize",
	"after_rollback",
	"after_save",
	"after_save_commit",
	"after_touch",
	"after_update",
	"after_update_commit",
	"around_create",
	"around_destroy",
	"around_save",
	"around_update",
	"before_create",
	"before_destroy",
	"before_save",
	"before_update",
}

// recordWriters assign attributes from a hash, calling each key's writer.
var recordWriters = []string{
	"assign_attributes",
	"build",
	"create",
	"create!",
	"create_or_find_by",
	"create_or_find_by!",
	"find_or_create_by",
	"find_or_create_by!",
	"find_or_initialize_by",
	"first_or_create",
	"first_or_create!",
	"first_or_initialize",
	"insert",
	"insert!",
	"insert_all",
	"insert_all!",
	"new",
	"update",
	"update!",
	"update_columns",
	"upsert",
	"upsert_all",
}

var recordMacros = []string{"store_accessor", "alias_attribute"}

// ActiveRecord models persisted models: lifecycle callbacks, attribute
// writers driven by CRUD hashes, and migrations run by the framework.
func ActiveRecord() deadcode.SendListener {
	callbacks := set(recordCallbacks...)
	writers := set(recordWriters...)
	return &plugin{
		name:     "activerecord",
		triggers: union(recordCallbacks, recordWriters, recordMacros),
		handler: func(send *deadcode.Send, emit deadcode.Emitter) {
			switch {
			case writers[send.Name]:
				// receivers vary (User.create, user.update, association.build)
				referenceWriters(send, emit)
			case !implicitSelf(send):
				return
			case callbacks[send.Name]:
				referenceArgs(send, emit)
				referenceConditions(send, emit)
			case send.Name == "store_accessor":
				referenceArgs(send, emit)
			case send.Name == "alias_attribute":
				// alias_attribute :new_name, :old_name
				if lits := send.LiteralArgs(); len(lits) == 2 {
					emit.ReferenceMethod(lits[1].Value, lits[1].Node.Location())
				}
			}
		},
		rules: []deadcode.IgnoreRule{
			deadcode.IgnoreClassesInheritingFrom("model", "ApplicationRecord", "ActiveRecord::Base"),
			deadcode.IgnoreClassesInheritingFrom("migration", "ActiveRecord::Migration"),
			deadcode.IgnoreMethodsInClassesInheritingFrom("migration", "ActiveRecord::Migration"),
			deadcode.IgnoreMethodsNamed("active record hook", "to_param", "table_name_prefix", "table_name_suffix"),
		},
	}
}
