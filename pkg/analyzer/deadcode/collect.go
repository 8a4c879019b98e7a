package deadcode

import (
	"errors"
	"fmt"

	"github.com/panbanda/reaper/pkg/ast"
)

// ErrUnexpectedNode is returned when a collector meets a node it cannot
// interpret, which in practice means a syntax error in the file.
var ErrUnexpectedNode = errors.New("unexpected node")

func unexpectedNode(n ast.Node) error {
	loc := n.Location()
	return fmt.Errorf("%w %q at %s:%d:%d", ErrUnexpectedNode, n.Type(), loc.File, loc.StartLine, loc.StartColumn)
}

// CollectFile runs both collectors over file. The file either contributes
// all of its definitions and references or none of them.
func CollectFile(file ast.File, reg *Registry) (*FileResult, error) {
	defs, err := CollectDefinitions(file)
	if err != nil {
		return nil, err
	}
	refs, err := CollectReferences(file, reg)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		Path:        file.Path(),
		Definitions: defs,
		References:  refs,
	}, nil
}
