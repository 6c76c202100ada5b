package codegen

import (
	"github.com/chazu/yailc/pkg/apispec"
	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/ir"
	"github.com/chazu/yailc/pkg/logger"
	"github.com/chazu/yailc/pkg/schema"
	"github.com/pkg/errors"
)

// EmitMethodCall emits a method call. Calls with a return value are atomic
// expressions; the rest are statements.
func (e *Emitter) EmitMethodCall(b *ast.MethodCallBlock) (Output, error) {
	ct, err := e.resolve(b)
	if err != nil {
		return Output{}, err
	}
	sig, err := ct.Method(b.MethodName)
	if err != nil {
		return Output{}, newError(ErrUnresolvedMember, b, err.Error(), err)
	}
	text, err := e.emitMethod(b, ct, sig)
	if err != nil {
		return Output{}, err
	}
	if sig.HasReturn() {
		return Output{Text: text, Order: PrecedenceAtomic, Value: true}, nil
	}
	return Output{Text: text, Order: PrecedenceNone}, nil
}

func (e *Emitter) emitMethod(b *ast.MethodCallBlock, ct *schema.ComponentType, sig *schema.MethodSignature) (string, error) {
	generic := b.Generic
	target, err := e.target(b, ct)
	if err != nil {
		return "", err
	}
	d := selectDispatch(ct.IsAPI, sig.Continuation, generic)

	var form ir.List
	switch d {
	case DispatchAPIInvoke:
		form, err = e.invokeAPI(b, ct, sig, target)
		if err != nil {
			return "", err
		}
	case DispatchAsyncInstance, DispatchBlockingInstance, DispatchAsyncGeneric, DispatchBlockingGeneric:
		args := make([]ir.Node, len(sig.Params))
		for i := range sig.Params {
			if args[i], err = e.required(b, ast.ArgSocket(i)); err != nil {
				return "", err
			}
		}
		types := sig.ParamTypes()
		if generic {
			types = append([]string{string(ir.ComponentType)}, types...)
		}
		name := emittedMethodName(b.MethodName, b.Field(ast.FieldTimeUnit))
		form = ir.Call(d.head(generic), target...)
		form = append(form, ir.QuoteSym(name), ir.RuntimeList(args...), ir.TypeList(types...))
	}

	e.log.Debug("method dispatch",
		logger.String("block", b.ID()),
		logger.String("method", b.MethodName),
		logger.String("dispatch", d.String()))
	return ir.Render(form), nil
}

// invokeAPI builds the uniform call for API components. The payload names
// the descriptor function; the bound arguments travel as one list and
// empty sockets are dropped.
func (e *Emitter) invokeAPI(b *ast.MethodCallBlock, ct *schema.ComponentType, sig *schema.MethodSignature, target []ir.Node) (ir.List, error) {
	payload, err := apispec.EncodeWith(e.apiCache, b.MethodName, ct.APICode)
	switch {
	case errors.Is(err, apispec.ErrFunctionNotFound):
		return nil, newError(ErrUnmatchedAPIFunction, b, err.Error(), err)
	case err != nil:
		return nil, newError(ErrUnresolvedType, b, err.Error(), err)
	}

	var items []ir.Node
	for i := range sig.Params {
		text, err := e.value(b, ast.ArgSocket(i))
		if err != nil {
			return nil, err
		}
		if text != "" {
			items = append(items, ir.Raw(text))
		}
	}

	form := ir.Call(DispatchAPIInvoke.head(b.Generic), target...)
	return append(form,
		ir.QuoteSym(apispec.InvokeMethod),
		ir.RuntimeList(ir.EscapedStr(payload), ir.MakeList(items...)),
		ir.TypeList("text", "list"),
	), nil
}
