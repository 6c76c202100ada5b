package codegen

import (
	"strings"

	"github.com/chazu/yailc/pkg/apispec"
	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/ir"
)

// Leading parameters of every generic event handler.
var genericEventParams = []string{"component", "notAlreadyHandled"}

// EmitEvent emits a handler definition:
//
//	(define-event Button1 Click ($x) (set-this-form) body)
//	(define-generic-event Button Click ($component $notAlreadyHandled $x) (set-this-form) body)
//
// Parameters always take the canonical names from the event signature.
// Handlers on API components listen for GotResponse.
func (e *Emitter) EmitEvent(b *ast.EventBlock) (string, error) {
	ct, err := e.resolve(b)
	if err != nil {
		return "", err
	}
	name := b.EventName
	if ct.IsAPI {
		name = apispec.ResponseEvent
	}
	sig, err := ct.Event(name)
	if err != nil {
		return "", newError(ErrUnresolvedMember, b, err.Error(), err)
	}

	var (
		head   ir.Symbol
		target string
		params = sig.ParamNames()
	)
	if b.Generic {
		if inst := b.Instance(); inst != "" {
			return "", errorf(ErrInvalidBinding, b, "generic event bound to instance %s", inst)
		}
		head, target = ir.DefineGenericEvent, b.TypeName
		params = append(append([]string{}, genericEventParams...), params...)
	} else {
		if b.Instance() == "" {
			return "", errorf(ErrInvalidBinding, b, "event without %s", ast.FieldComponentSelector)
		}
		head, target = ir.DefineEvent, b.Instance()
	}

	body, err := e.render.RenderStatements(b, ast.SocketDo)
	if err != nil {
		return "", blockError(ErrUnsupportedBlock, b, err)
	}
	var bodyNode ir.Node = ir.Null
	if strings.TrimSpace(body) != "" {
		bodyNode = ir.Raw(body)
	}

	form := ir.Call(head,
		ir.Symbol(target),
		ir.Symbol(name),
		ir.Params(params...),
		ir.List{ir.SetThisForm},
		bodyNode,
	)
	return ir.Render(form), nil
}
