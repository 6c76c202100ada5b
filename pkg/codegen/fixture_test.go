package codegen_test

import (
	"github.com/chazu/yailc/pkg/apispec"
	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/schema"
)

const petsDescriptor = `{"serverUrl":"https://x","functions":[{"name":"Foo"},{"name":"get_pet","path":"/pet"}]}`

func testRegistry() *schema.MemoryRegistry {
	reg := schema.NewMemoryRegistry()
	reg.MustRegister(
		schema.ComponentType{
			Name: "Button",
			Events: []schema.EventSignature{
				{Name: "Click"},
				{Name: "TouchDown", Params: []schema.Param{{Name: "x", Type: "number"}, {Name: "y", Type: "number"}}},
			},
			Properties: []schema.PropertySignature{
				{Name: "Text", Type: "text"},
				{Name: "Enabled", Type: "boolean"},
			},
		},
		schema.ComponentType{
			Name:       "Label",
			Properties: []schema.PropertySignature{{Name: "Text", Type: "text"}},
		},
		schema.ComponentType{
			Name:   "Clock",
			Events: []schema.EventSignature{{Name: "Timer"}},
			Methods: []schema.MethodSignature{
				{Name: "Now", ReturnType: "InstantInTime"},
				{Name: "AddDays", ReturnType: "InstantInTime", Params: []schema.Param{
					{Name: "instant", Type: "InstantInTime"},
					{Name: "quantity", Type: "number"},
				}},
				{Name: "AddSeconds", ReturnType: "InstantInTime", Params: []schema.Param{
					{Name: "instant", Type: "InstantInTime"},
					{Name: "quantity", Type: "number"},
				}},
				{Name: "FormatDate", ReturnType: "text", Params: []schema.Param{
					{Name: "instant", Type: "InstantInTime"},
					{Name: "pattern", Type: "text"},
				}},
			},
		},
		schema.ComponentType{
			Name:       "Notifier",
			NonVisible: true,
			Methods: []schema.MethodSignature{
				{Name: "ShowAlert", Params: []schema.Param{{Name: "notice", Type: "text"}}},
				{Name: "ShowChooseDialog", ReturnType: "text", Continuation: true, Params: []schema.Param{
					{Name: "message", Type: "text"},
					{Name: "title", Type: "text"},
				}},
			},
		},
		schema.ComponentType{
			Name:    "Pets",
			Type:    apispec.RuntimeClass,
			IsAPI:   true,
			APICode: petsDescriptor,
			Events: []schema.EventSignature{
				{Name: apispec.ResponseEvent, Params: []schema.Param{{Name: "response", Type: "dictionary"}}},
				{Name: apispec.TimedOutEvent, Params: []schema.Param{{Name: "url", Type: "text"}}},
				{Name: "got_pet", Params: []schema.Param{{Name: "response", Type: "dictionary"}}},
			},
			Methods: []schema.MethodSignature{
				{Name: "Foo", Continuation: true, Params: []schema.Param{{Name: "a", Type: "any"}, {Name: "b", Type: "any"}}},
				{Name: "get_pet", Params: []schema.Param{{Name: "id", Type: "any"}}},
				{Name: "Bar"},
			},
		},
	)
	return reg
}

func selector(inst string) map[string]string {
	return map[string]string{ast.FieldComponentSelector: inst}
}

func text(s string) *ast.TextBlock { return &ast.TextBlock{Text: s} }

func num(s string) *ast.NumberBlock { return &ast.NumberBlock{Num: s} }

func boolean(v bool) *ast.BooleanBlock { return &ast.BooleanBlock{Bool: v} }

func local(name string) *ast.LocalGetBlock { return &ast.LocalGetBlock{Name: name} }

func comp(typ, inst string) *ast.ComponentBlock {
	return &ast.ComponentBlock{Component: ast.Component{
		Base:     ast.Base{BlockID: "c-" + inst, Fields: selector(inst)},
		TypeName: typ,
	}}
}

func argValues(args []ast.Block) map[string]ast.Block {
	values := make(map[string]ast.Block, len(args))
	for i, a := range args {
		if a != nil {
			values[ast.ArgSocket(i)] = a
		}
	}
	return values
}

func call(typ, inst, method string, args ...ast.Block) *ast.MethodCallBlock {
	return &ast.MethodCallBlock{
		Component: ast.Component{
			Base:     ast.Base{BlockID: "m-" + method, Fields: selector(inst), Values: argValues(args)},
			TypeName: typ,
		},
		MethodName: method,
	}
}

func genericCall(typ, method string, component ast.Block, args ...ast.Block) *ast.MethodCallBlock {
	values := argValues(args)
	if component != nil {
		values[ast.SocketComponent] = component
	}
	return &ast.MethodCallBlock{
		Component: ast.Component{
			Base:     ast.Base{BlockID: "g-" + method, Fields: map[string]string{}, Values: values},
			TypeName: typ,
			Generic:  true,
		},
		MethodName: method,
	}
}

func get(typ, inst, prop string) *ast.PropertyGetBlock {
	return &ast.PropertyGetBlock{Component: ast.Component{
		Base:     ast.Base{BlockID: "get-" + prop, Fields: map[string]string{ast.FieldComponentSelector: inst, ast.FieldProp: prop}},
		TypeName: typ,
	}}
}

func genericGet(typ, prop string, component ast.Block) *ast.PropertyGetBlock {
	return &ast.PropertyGetBlock{Component: ast.Component{
		Base: ast.Base{
			BlockID: "gget-" + prop,
			Fields:  map[string]string{ast.FieldProp: prop},
			Values:  map[string]ast.Block{ast.SocketComponent: component},
		},
		TypeName: typ,
		Generic:  true,
	}}
}

func set(typ, inst, prop string, value ast.Block) *ast.PropertySetBlock {
	values := map[string]ast.Block{}
	if value != nil {
		values[ast.SocketValue] = value
	}
	return &ast.PropertySetBlock{Component: ast.Component{
		Base: ast.Base{
			BlockID: "set-" + prop,
			Fields:  map[string]string{ast.FieldComponentSelector: inst, ast.FieldProp: prop},
			Values:  values,
		},
		TypeName: typ,
	}}
}

func genericSet(typ, prop string, component, value ast.Block) *ast.PropertySetBlock {
	values := map[string]ast.Block{}
	if component != nil {
		values[ast.SocketComponent] = component
	}
	if value != nil {
		values[ast.SocketValue] = value
	}
	return &ast.PropertySetBlock{Component: ast.Component{
		Base: ast.Base{
			BlockID: "gset-" + prop,
			Fields:  map[string]string{ast.FieldProp: prop},
			Values:  values,
		},
		TypeName: typ,
		Generic:  true,
	}}
}

func event(typ, inst, name string, body ...ast.Block) *ast.EventBlock {
	return &ast.EventBlock{
		Component: ast.Component{
			Base: ast.Base{
				BlockID:   "ev-" + inst + "-" + name,
				Fields:    selector(inst),
				Statement: map[string][]ast.Block{ast.SocketDo: body},
			},
			TypeName: typ,
		},
		EventName: name,
	}
}

func genericEvent(typ, name string, body ...ast.Block) *ast.EventBlock {
	return &ast.EventBlock{
		Component: ast.Component{
			Base: ast.Base{
				BlockID:   "gev-" + typ + "-" + name,
				Statement: map[string][]ast.Block{ast.SocketDo: body},
			},
			TypeName: typ,
			Generic:  true,
		},
		EventName: name,
	}
}
