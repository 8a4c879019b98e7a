package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deadTable() *Table {
	return NewTable(
		"Dead Definitions",
		[]string{"Location", "Kind", "Name"},
		[][]string{
			{"app/models/user.rb:4", "method", "User::legacy"},
			{"lib/util.rb:1", "module", "Util"},
		},
		[]string{"Total: 2", "", ""},
		nil,
	)
}

func TestTable_RenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, deadTable().RenderText(&buf, false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Dead Definitions\n================\n"))
	assert.Contains(t, out, "User::legacy")
	assert.Contains(t, out, "lib/util.rb:1")
	assert.Contains(t, out, "Total: 2")
}

func TestTable_RenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, deadTable().RenderMarkdown(&buf))

	assert.Equal(t, "## Dead Definitions\n\n"+
		"| Location | Kind | Name |\n"+
		"| --- | --- | --- |\n"+
		"| app/models/user.rb:4 | method | User::legacy |\n"+
		"| lib/util.rb:1 | module | Util |\n"+
		"| Total: 2 |  |  |\n\n", buf.String())
}

func TestTable_RenderMarkdown_EscapesPipes(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("", []string{"Name"}, [][]string{{"Foo::|"}, {"a\nb"}}, nil, nil)
	require.NoError(t, table.RenderMarkdown(&buf))

	assert.Equal(t, "| Name |\n| --- |\n| Foo::\\| |\n| a b |\n\n", buf.String())
}

func TestTable_RenderData(t *testing.T) {
	rows, ok := deadTable().RenderData().([]map[string]string)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "Util", rows[1]["Name"])

	data := map[string]int{"dead": 2}
	assert.Equal(t, data, NewTable("", nil, nil, nil, data).RenderData())
}

func TestSection_Render(t *testing.T) {
	s := &Section{
		Title:   "Summary",
		Content: "2 dead of 10 definitions",
		Sections: []Section{
			{Title: "Listeners", Content: "rails, ruby"},
		},
	}

	var text bytes.Buffer
	require.NoError(t, s.RenderText(&text, false))
	assert.Equal(t, "Summary\n=======\n2 dead of 10 definitions\n\nListeners\n---------\nrails, ruby\n", text.String())

	var md bytes.Buffer
	require.NoError(t, s.RenderMarkdown(&md))
	assert.Equal(t, "## Summary\n\n2 dead of 10 definitions\n\n### Listeners\n\nrails, ruby\n\n", md.String())

	assert.Same(t, s, s.RenderData())
}

func TestReport_Render(t *testing.T) {
	r := &Report{
		Title: "Dead Code",
		Sections: []Renderable{
			&Section{Title: "Summary", Content: "ok"},
			deadTable(),
		},
	}

	var text bytes.Buffer
	require.NoError(t, r.RenderText(&text, false))
	assert.True(t, strings.HasPrefix(text.String(), "Dead Code\n=========\n\nSummary\n"))
	assert.Contains(t, text.String(), "User::legacy")

	var md bytes.Buffer
	require.NoError(t, r.RenderMarkdown(&md))
	assert.True(t, strings.HasPrefix(md.String(), "# Dead Code\n\n## Summary\n"))

	data := r.RenderData().(map[string]any)
	assert.Equal(t, "Dead Code", data["title"])
	assert.Len(t, data["sections"], 2)

	r.Data = []string{"raw"}
	assert.Equal(t, []string{"raw"}, r.RenderData())
}
