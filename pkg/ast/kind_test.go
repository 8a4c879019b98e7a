package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		nodeType string
		want     Kind
	}{
		{"class", KindClass},
		{"call", KindCall},
		{"method_call", KindCall},
		{"simple_symbol", KindSymbol},
		{"do_block", KindBlock},
		{"block_parameters", KindParameters},
		{"symbol_array", KindArray},
		{"ERROR", KindError},
		{"if", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.nodeType))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "singleton_method", KindSingletonMethod.String())
	assert.Equal(t, "other", Kind(250).String())
}

func TestSpan(t *testing.T) {
	from := Location{File: "a.rb", StartLine: 1, StartColumn: 0, EndLine: 1, EndColumn: 5}
	to := Location{File: "a.rb", StartLine: 1, StartColumn: 6, EndLine: 2, EndColumn: 3}
	assert.Equal(t, Location{File: "a.rb", StartLine: 1, StartColumn: 0, EndLine: 2, EndColumn: 3}, Span(from, to))
	assert.Equal(t, "a.rb:1:0-2:3", Span(from, to).String())
}
