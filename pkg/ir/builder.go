// Package ir provides constructors for the YAIL forms used by component blocks.
package ir

// Heads of the component forms understood by the YAIL runtime.
const (
	DefineEvent        Symbol = "define-event"
	DefineGenericEvent Symbol = "define-generic-event"

	CallComponentMethod               Symbol = "call-component-method"
	CallComponentMethodBlocking       Symbol = "call-component-method-with-blocking-continuation"
	CallComponentTypeMethod           Symbol = "call-component-type-method"
	CallComponentTypeMethodBlocking   Symbol = "call-component-type-method-with-blocking-continuation"
	SetAndCoerceProperty              Symbol = "set-and-coerce-property!"
	SetAndCoerceComponentTypeProperty Symbol = "set-and-coerce-property-and-check!"
	GetProperty                       Symbol = "get-property"
	GetComponentTypeProperty          Symbol = "get-property-and-check"
	GetComponent                      Symbol = "get-component"
	CallYailPrimitive                 Symbol = "call-yail-primitive"
	SetThisForm                       Symbol = "set-this-form"
	ListConstructor                   Symbol = "*list-for-runtime*"
	GetVar                            Symbol = "get-var"
	TheNullValue                      Symbol = "*the-null-value*"
	MakeYailList                      Symbol = "make-yail-list"
	ComponentType                     Symbol = "component"
	AnyType                           Symbol = "any"
	LexicalValue                      Symbol = "lexical-value"
	True                              Symbol = "#t"
	False                             Symbol = "#f"
)

// LocalVarTag marks block-local bindings such as event parameters.
// At least one Kawa-legal leading character keeps block names valid identifiers.
const LocalVarTag = "$"

// Null is the literal used where a form requires an expression but the
// block supplied none.
var Null = List{GetVar, TheNullValue}

// Call builds (head args...).
func Call(head Symbol, args ...Node) List {
	l := make(List, 0, len(args)+1)
	l = append(l, head)
	return append(l, args...)
}

// QuoteSym builds 'name.
func QuoteSym(name string) Quote {
	return Quote{Node: Symbol(name)}
}

// RuntimeList builds (*list-for-runtime* items...).
func RuntimeList(items ...Node) List {
	return Call(ListConstructor, items...)
}

// TypeList builds the quoted coercion tuple '(t1 t2 ...).
func TypeList(types ...string) Quote {
	l := make(List, len(types))
	for i, t := range types {
		l[i] = Symbol(t)
	}
	return Quote{Node: l}
}

// LocalVar returns the tagged name of a block-local binding.
func LocalVar(name string) Symbol {
	return Symbol(LocalVarTag + name)
}

// Params builds the formal parameter combination ($a $b ...).
func Params(names ...string) List {
	l := make(List, len(names))
	for i, n := range names {
		l[i] = LocalVar(n)
	}
	return l
}

// MakeList builds the runtime list primitive call used to pack API arguments:
// (call-yail-primitive make-yail-list (*list-for-runtime* items...) '(any ...) "make a list").
func MakeList(items ...Node) List {
	types := make([]string, len(items))
	for i := range items {
		types[i] = string(AnyType)
	}
	return Call(CallYailPrimitive,
		MakeYailList,
		RuntimeList(items...),
		TypeList(types...),
		Str("make a list"),
	)
}
