package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and what is returned.

func describeDeadcode() string {
	return `Finds Ruby classes, modules, constants, methods and attribute accessors that nothing in the project references.

USE WHEN:
- Cleaning up a Ruby or Rails codebase before a refactor
- Finding code orphaned after a feature was removed
- Checking whether a pull request left definitions behind
- Comparing dead code between git revisions (pass ref)

INTERPRETING RESULTS:
- Matching is by name only: a definition is alive if its name is used anywhere, even on an unrelated receiver
- A dead result is therefore strong evidence; an alive result is not proof of use
- Framework plugins (Rails, RSpec, GraphQL, ...) are chosen from Gemfile.lock and turn DSL calls such as before_action :authenticate into references
- Methods invoked only through send(name) with a computed name, or from outside the scanned paths, are reported dead; verify before deleting
- Ignored definitions (show_ignored) are entry points the framework calls for you, such as test_* methods, initialize and method_missing

METRICS RETURNED:
- dead: kind, qualified_name and location per definition, ordered by file then line
- ignored: the same plus the reason, when show_ignored is set
- listeners: the plugins that were active
- summary: totals of definitions, references, alive, ignored and dead, dead_percentage, counts by kind and by file
- errors: files that failed to parse; their definitions and references are missing from the result`
}

func describeDefinitionsForName() string {
	return `Explains why a name is dead or alive: lists every definition answering to the name with its status, and every reference to it.

USE WHEN:
- A definition is reported dead and you want to confirm nothing calls it
- A definition you expected to be dead is reported alive
- Finding which plugin synthesized a reference from a DSL call
- Checking what a rename would affect

INTERPRETING RESULTS:
- Names are bare: look up perform, not MyJob#perform; setters carry their trailing =
- An attr_accessor answers to both its reader and writer names
- A reference with a source was synthesized by that plugin from a DSL call rather than read from the syntax
- Every definition sharing a referenced name is alive, whichever class it belongs to

METRICS RETURNED:
- definitions: kind, qualified_name, location, status (alive, dead or ignored) and reason for ignored ones
- references: kind (method or constant), location and the synthesizing plugin when there is one`
}

func describePlugins() string {
	return `Lists the framework plugins reaper knows and which of them the project at the given path activates.

USE WHEN:
- Dead code results look wrong for a framework DSL
- Checking that Gemfile.lock was found and read
- Deciding whether to force a plugin with the deadcode.plugins setting

INTERPRETING RESULTS:
- A plugin is selected when one of its gems appears in Gemfile.lock or it is listed in configuration
- The generic ruby listener is always selected and always runs last
- A missing lockfile selects only the generic listener

METRICS RETURNED:
- lockfile: the path that was read
- plugins: name, activating gems and whether it was selected
- selected: the active listeners in dispatch order`
}
