package codegen

import (
	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/ir"
)

// EmitProperty emits one of the four property forms, chosen by the block
// variant and its generic flag:
//
//	(get-property 'Button1 'Text)
//	(get-property-and-check <component> 'RuntimeType 'Text)
//	(set-and-coerce-property! 'Button1 'Text <value> 'text)
//	(set-and-coerce-property-and-check! <component> 'RuntimeType 'Text <value> 'text)
func (e *Emitter) EmitProperty(b ast.Interaction) (Output, error) {
	var (
		prop string
		set  bool
	)
	switch v := b.(type) {
	case *ast.PropertyGetBlock:
		prop = v.PropertyName()
	case *ast.PropertySetBlock:
		prop, set = v.PropertyName(), true
	default:
		return Output{}, errorf(ErrUnsupportedBlock, b, "not a property block")
	}

	ct, err := e.resolve(b)
	if err != nil {
		return Output{}, err
	}
	if prop == "" {
		return Output{}, errorf(ErrUnresolvedMember, b, "block has no %s field", ast.FieldProp)
	}
	sig, err := ct.Property(prop)
	if err != nil {
		return Output{}, newError(ErrUnresolvedMember, b, err.Error(), err)
	}
	target, err := e.target(b, ct)
	if err != nil {
		return Output{}, err
	}
	generic := b.Header().Generic

	if !set {
		head := ir.GetProperty
		if generic {
			head = ir.GetComponentTypeProperty
		}
		form := append(ir.Call(head, target...), ir.QuoteSym(prop))
		return Output{Text: ir.Render(form), Order: PrecedenceAtomic, Value: true}, nil
	}

	value, err := e.required(b, ast.SocketValue)
	if err != nil {
		return Output{}, err
	}
	head := ir.SetAndCoerceProperty
	if generic {
		head = ir.SetAndCoerceComponentTypeProperty
	}
	form := append(ir.Call(head, target...), ir.QuoteSym(prop), value, ir.QuoteSym(sig.Type))
	return Output{Text: ir.Render(form), Order: PrecedenceNone}, nil
}

// EmitComponent emits (get-component Button1). The instance is not
// checked against the registry.
func (e *Emitter) EmitComponent(b *ast.ComponentBlock) (Output, error) {
	inst := b.Instance()
	if inst == "" {
		return Output{}, errorf(ErrInvalidBinding, b, "component block without %s", ast.FieldComponentSelector)
	}
	form := ir.Call(ir.GetComponent, ir.Symbol(inst))
	return Output{Text: ir.Render(form), Order: PrecedenceAtomic, Value: true}, nil
}
