package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/panbanda/reaper/internal/lockfile"
	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/source"
)

// Entry ties a plugin to the gems that activate it.
type Entry struct {
	Name string
	Gems []string
	New  func() deadcode.SendListener
}

// Catalog lists the framework plugins in dispatch order. The generic Ruby
// listener is not part of it; Select always appends it last.
var Catalog = []Entry{
	{Name: "actionmailer", Gems: []string{"actionmailer"}, New: ActionMailer},
	{Name: "actionpack", Gems: []string{"actionpack"}, New: ActionPack},
	{Name: "activejob", Gems: []string{"activejob"}, New: ActiveJob},
	{Name: "activemodel", Gems: []string{"activemodel"}, New: ActiveModel},
	{Name: "activerecord", Gems: []string{"activerecord"}, New: ActiveRecord},
	{Name: "activesupport", Gems: []string{"activesupport"}, New: ActiveSupport},
	{Name: "graphql", Gems: []string{"graphql"}, New: GraphQL},
	{Name: "minitest", Gems: []string{"minitest"}, New: Minitest},
	{Name: "rails", Gems: []string{"rails", "railties"}, New: Rails},
	{Name: "rake", Gems: []string{"rake"}, New: Rake},
	{Name: "rspec", Gems: []string{"rspec", "rspec-core"}, New: RSpec},
	{Name: "rubocop", Gems: []string{"rubocop"}, New: RuboCop},
	{Name: "sorbet", Gems: []string{"sorbet-runtime", "sorbet", "sorbet-static"}, New: Sorbet},
	{Name: "thor", Gems: []string{"thor"}, New: Thor},
}

// ErrUnknownPlugin is returned when a plugin is requested by a name that is
// not in the catalog.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Names lists the catalog plugin names followed by the generic listener.
func Names() []string {
	out := make([]string, 0, len(Catalog)+1)
	for _, e := range Catalog {
		out = append(out, e.Name)
	}
	return append(out, "ruby")
}

// Select returns the listeners for the gems in manifest, in catalog order,
// followed by the generic Ruby listener. A nil manifest selects only the
// generic listener.
func Select(manifest lockfile.Manifest) []deadcode.SendListener {
	listeners, _ := SelectWith(manifest, nil)
	return listeners
}

// SelectWith is Select plus the plugins named in extra, whether or not their
// gems are in the manifest. Each plugin is selected at most once.
func SelectWith(manifest lockfile.Manifest, extra []string) ([]deadcode.SendListener, error) {
	wanted := make(map[string]bool, len(extra))
	for _, name := range extra {
		if name == "ruby" {
			continue
		}
		if !inCatalog(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
		}
		wanted[name] = true
	}

	var out []deadcode.SendListener
	for _, e := range Catalog {
		if wanted[e.Name] || activated(e, manifest) {
			out = append(out, e.New())
		}
	}
	return append(out, Ruby()), nil
}

func activated(e Entry, manifest lockfile.Manifest) bool {
	for _, gem := range e.Gems {
		if manifest.Has(gem) {
			return true
		}
	}
	return false
}

func inCatalog(name string) bool {
	for _, e := range Catalog {
		if e.Name == name {
			return true
		}
	}
	return false
}

// All returns every plugin in catalog order followed by the generic listener.
func All() []deadcode.SendListener {
	out := make([]deadcode.SendListener, 0, len(Catalog)+1)
	for _, e := range Catalog {
		out = append(out, e.New())
	}
	return append(out, Ruby())
}

// SelectFromLockfile selects listeners from the Gemfile.lock at path, read
// through src, plus the plugins named in extra. A missing lockfile is normal
// for plain Ruby projects and is logged at debug level; an unreadable one is
// logged as a warning. Either way the generic listener is still returned.
// The only error is ErrUnknownPlugin.
func SelectFromLockfile(src source.ContentSource, path string, extra []string, logger *slog.Logger) ([]deadcode.SendListener, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var manifest lockfile.Manifest
	data, err := src.Read(path)
	if err == nil {
		manifest, err = lockfile.Parse(bytes.NewReader(data))
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("no lockfile, using generic listener only", "lockfile", path)
	case err != nil:
		logger.Warn("could not read lockfile, using generic listener only", "lockfile", path, "error", err)
	}

	listeners, err := SelectWith(manifest, extra)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(listeners))
	for _, l := range listeners {
		names = append(names, l.Name())
	}
	logger.Debug("selected listeners", "lockfile", path, "listeners", names)
	return listeners, nil
}
