package codegen

import (
	"strings"

	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/ir"
)

// Renderer is the built-in ChildRenderer. It understands literal blocks,
// local variable reads and nested component blocks, which it hands back
// to its Emitter.
type Renderer struct {
	emitter *Emitter
}

// NewRenderer returns a Renderer emitting nested component blocks with e.
func NewRenderer(e *Emitter) *Renderer {
	return &Renderer{emitter: e}
}

// RenderValue renders the block attached to socket. A missing or disabled
// block renders as "".
func (r *Renderer) RenderValue(b ast.Block, socket string, _ Precedence) (string, error) {
	child, ok := b.Value(socket)
	if !ok || child.Disabled() {
		return "", nil
	}
	return r.expression(child)
}

// Every form is parenthesized, so no precedence ever needs extra grouping.
func (r *Renderer) expression(b ast.Block) (string, error) {
	switch v := b.(type) {
	case *ast.TextBlock:
		return ir.Render(ir.Str(v.Text)), nil
	case *ast.NumberBlock:
		if v.Num == "" {
			return "", errorf(ErrUnsupportedBlock, b, "empty number")
		}
		return v.Num, nil
	case *ast.BooleanBlock:
		if v.Bool {
			return string(ir.True), nil
		}
		return string(ir.False), nil
	case *ast.LocalGetBlock:
		if v.Name == "" {
			return "", errorf(ErrUnsupportedBlock, b, "variable get without a name")
		}
		return ir.Render(ir.Call(ir.LexicalValue, ir.LocalVar(v.Name))), nil
	case *ast.NullBlock:
		return ir.Render(ir.Null), nil
	case *ast.EventBlock:
		return "", errorf(ErrUnsupportedBlock, b, "event handler used as a value")
	case ast.Interaction:
		out, err := r.emitter.Emit(v)
		if err != nil {
			return "", err
		}
		if !out.Value {
			return "", errorf(ErrUnsupportedBlock, b, "statement used as a value")
		}
		return out.Text, nil
	}
	return "", errorf(ErrUnsupportedBlock, b, "no renderer for %s", b.Kind())
}

// RenderStatements renders the blocks attached to socket one per line,
// skipping disabled ones.
func (r *Renderer) RenderStatements(b ast.Block, socket string) (string, error) {
	var lines []string
	for _, child := range b.Statements(socket) {
		if child.Disabled() {
			continue
		}
		stmt, ok := child.(ast.Interaction)
		if !ok {
			return "", errorf(ErrUnsupportedBlock, child, "%s is not a statement", child.Kind())
		}
		if _, ok := child.(*ast.EventBlock); ok {
			return "", errorf(ErrUnsupportedBlock, child, "nested event handler")
		}
		out, err := r.emitter.Emit(stmt)
		if err != nil {
			return "", err
		}
		lines = append(lines, out.Text)
	}
	return strings.Join(lines, "\n"), nil
}
