package deadcode

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/panbanda/reaper/internal/fileproc"
	"github.com/panbanda/reaper/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	dir, files := writeFiles(t, map[string]string{
		"app/foo.rb": "class Foo\n  LIMIT = 3\n  def bar; end\n  def test_x; end\nend\n",
		"app/baz.rb": "class Baz; end\nFoo.new\n",
	})
	rule := IgnoreMethodsNamed("test method", "test_*")

	result, err := New(WithIgnoreRules(rule)).Analyze(context.Background(), files)
	require.NoError(t, err)

	report := NewReport(result, ReportOptions{Root: dir})

	var names []string
	for _, d := range report.Dead {
		names = append(names, d.QualifiedName)
	}
	assert.Equal(t, []string{"Baz", "Foo::LIMIT", "Foo::bar"}, names)
	assert.Equal(t, "app/baz.rb", report.Dead[0].Location.File)
	assert.Equal(t, models.DefinitionKind("constant"), report.Dead[1].Kind)
	assert.Equal(t, 2, report.Dead[1].Location.StartLine)
	assert.Nil(t, report.Ignored)

	s := report.Summary
	assert.Equal(t, 2, s.TotalFilesAnalyzed)
	assert.Equal(t, 3, s.TotalDead)
	assert.Equal(t, map[string]int{"class": 1, "constant": 1, "method": 1}, s.ByKind)
	assert.Equal(t, map[string]int{"app/baz.rb": 1, "app/foo.rb": 2}, s.ByFile)
	assert.Equal(t, s.TotalDefinitions, s.TotalAlive+s.TotalIgnored+s.TotalDead)
	assert.InDelta(t, float64(s.TotalDead)/float64(s.TotalDefinitions)*100, s.DeadPercentage, 0.001)
}

func TestNewReport_ShowIgnored(t *testing.T) {
	dir, files := writeFiles(t, map[string]string{
		"foo_test.rb": "class FooTest\n  def test_something; end\nend\n",
	})

	result, err := New(WithIgnoreRules(IgnoreMethodsNamed("test method", "test_*"))).
		Analyze(context.Background(), files)
	require.NoError(t, err)

	report := NewReport(result, ReportOptions{Root: dir, ShowIgnored: true})
	assert.Empty(t, report.Dead)
	assert.NotNil(t, report.Dead)

	reasons := make(map[string]string)
	for _, ig := range report.Ignored {
		reasons[ig.QualifiedName] = ig.Reason
	}
	assert.Equal(t, "test method (test_*)", reasons["FooTest::test_something"])
	assert.Equal(t, "namespace", reasons["FooTest"])
}

func TestNewReport_Errors(t *testing.T) {
	ix := NewIndex()
	ix.Finalize()
	root := filepath.Join(string(filepath.Separator), "repo")
	a := &Analysis{
		Index:     ix,
		Listeners: []string{"ruby"},
		Errors: []fileproc.ProcessingError{
			{Path: filepath.Join(root, "lib", "broken.rb"), Err: errors.New("syntax error")},
		},
	}

	report := NewReport(a, ReportOptions{Root: root, Ref: "main"})
	assert.Equal(t, "main", report.Ref)
	assert.Equal(t, []string{"ruby"}, report.Listeners)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "lib/broken.rb", report.Errors[0].File)
	assert.Equal(t, "syntax error", report.Errors[0].Error)
	assert.Equal(t, 1, report.Summary.TotalFilesFailed)
	assert.Zero(t, report.Summary.DeadPercentage)
}

func TestRelativeTo(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	tests := []struct {
		path, root, want string
	}{
		{filepath.Join(root, "app", "a.rb"), root, "app/a.rb"},
		{"app/a.rb", root, "app/a.rb"},
		{filepath.Join(root, "a.rb"), "", filepath.ToSlash(filepath.Join(root, "a.rb"))},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTo(tt.path, tt.root), tt.path)
	}
}

func TestReportKinds(t *testing.T) {
	kinds := ReportKinds()
	require.Len(t, kinds, len(AllKinds))
	assert.Equal(t, models.DefinitionKind("class"), kinds[0])
}

func TestLookupName(t *testing.T) {
	dir, files := writeFiles(t, map[string]string{
		"lib/foo.rb":  "class Foo\n  def bar; end\n  def baz; end\nend\n",
		"lib/main.rb": "Foo.new.bar\n",
	})

	result, err := New().Analyze(context.Background(), files)
	require.NoError(t, err)

	lookup := LookupName(result, "bar", dir)
	assert.Equal(t, "bar", lookup.Name)
	require.Len(t, lookup.Definitions, 1)
	assert.Equal(t, "Foo::bar", lookup.Definitions[0].QualifiedName)
	assert.Equal(t, "alive", lookup.Definitions[0].Status)
	assert.Equal(t, "lib/foo.rb", lookup.Definitions[0].Location.File)
	require.Len(t, lookup.References, 1)
	assert.Equal(t, "method", lookup.References[0].Kind)
	assert.Equal(t, "lib/main.rb", lookup.References[0].Location.File)

	dead := LookupName(result, "baz", dir)
	require.Len(t, dead.Definitions, 1)
	assert.Equal(t, "dead", dead.Definitions[0].Status)
	assert.Empty(t, dead.References)

	missing := LookupName(result, "qux", dir)
	assert.NotNil(t, missing.Definitions)
	assert.Empty(t, missing.Definitions)
}
