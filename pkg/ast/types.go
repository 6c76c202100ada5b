// Package ast defines the block tree handed to the emitter by the block editor.
// Blocks are a closed set of variants; the emitter only reads them.
package ast

import "strconv"

// Kind identifies a block variant. Values match the editor's block type names.
type Kind string

const (
	KindEvent     Kind = "component_event"
	KindMethod    Kind = "component_method"
	KindSetGet    Kind = "component_set_get"
	KindComponent Kind = "component_component_block"

	KindText     Kind = "text"
	KindNumber   Kind = "math_number"
	KindBoolean  Kind = "logic_boolean"
	KindLocalGet Kind = "lexical_variable_get"
	KindNull     Kind = "logic_null"
)

// Socket and field names shared by component blocks.
const (
	SocketComponent = "COMPONENT"
	SocketValue     = "VALUE"
	SocketDo        = "DO"

	FieldComponentSelector = "COMPONENT_SELECTOR"
	FieldProp              = "PROP"
	FieldTimeUnit          = "TIME_UNIT"
)

// Block is implemented by every block variant.
type Block interface {
	ID() string
	Kind() Kind
	// Disabled reports whether the block was deactivated in the editor.
	Disabled() bool
	// Field returns the value of a named field, or "" when absent.
	Field(name string) string
	// Value returns the block plugged into a value socket.
	Value(socket string) (Block, bool)
	// Statements returns the blocks attached to a statement socket, in order.
	Statements(socket string) []Block
}

// Base holds the state common to all blocks.
type Base struct {
	BlockID   string
	Off       bool
	Fields    map[string]string
	Values    map[string]Block
	Statement map[string][]Block
}

func (b *Base) ID() string     { return b.BlockID }
func (b *Base) Disabled() bool { return b.Off }

func (b *Base) Field(name string) string {
	return b.Fields[name]
}

func (b *Base) Value(socket string) (Block, bool) {
	v, ok := b.Values[socket]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (b *Base) Statements(socket string) []Block {
	return b.Statement[socket]
}

// Component is the header shared by interaction blocks.
// Instance blocks carry the instance name in the COMPONENT_SELECTOR field;
// generic blocks instead take the component from the COMPONENT socket.
type Component struct {
	Base
	TypeName string
	Generic  bool
}

// Instance returns the bound instance name of a non-generic block.
func (c *Component) Instance() string {
	return c.Field(FieldComponentSelector)
}

// Interaction is implemented by the four component block variants.
type Interaction interface {
	Block
	Header() *Component
}

func (c *Component) Header() *Component { return c }

// EventBlock declares an event handler.
type EventBlock struct {
	Component
	EventName string
	// DeclaredNames are the parameter names shown in the editor. They may be
	// translated or renamed and are never emitted.
	DeclaredNames []string
}

func (*EventBlock) Kind() Kind { return KindEvent }

// MethodCallBlock calls a component method. Arguments are in sockets ARG0..ARGn-1.
type MethodCallBlock struct {
	Component
	MethodName string
}

func (*MethodCallBlock) Kind() Kind { return KindMethod }

// ArgSocket returns the socket name of the i'th method argument.
func ArgSocket(i int) string {
	return "ARG" + strconv.Itoa(i)
}

// PropertyGetBlock reads a component property.
type PropertyGetBlock struct {
	Component
}

func (*PropertyGetBlock) Kind() Kind { return KindSetGet }

// PropertyName returns the property read by the block.
func (b *PropertyGetBlock) PropertyName() string { return b.Field(FieldProp) }

// PropertySetBlock assigns a component property from the VALUE socket.
type PropertySetBlock struct {
	Component
}

func (*PropertySetBlock) Kind() Kind { return KindSetGet }

// PropertyName returns the property written by the block.
func (b *PropertySetBlock) PropertyName() string { return b.Field(FieldProp) }

// ComponentBlock refers to a component instance by name.
type ComponentBlock struct {
	Component
}

func (*ComponentBlock) Kind() Kind { return KindComponent }

// TextBlock is a string literal.
type TextBlock struct {
	Base
	Text string
}

func (*TextBlock) Kind() Kind { return KindText }

// NumberBlock is a numeric literal, kept as written.
type NumberBlock struct {
	Base
	Num string
}

func (*NumberBlock) Kind() Kind { return KindNumber }

// BooleanBlock is true or false.
type BooleanBlock struct {
	Base
	Bool bool
}

func (*BooleanBlock) Kind() Kind { return KindBoolean }

// LocalGetBlock reads a block-local variable such as an event parameter.
type LocalGetBlock struct {
	Base
	Name string
}

func (*LocalGetBlock) Kind() Kind { return KindLocalGet }

// NullBlock is the empty value.
type NullBlock struct {
	Base
}

func (*NullBlock) Kind() Kind { return KindNull }
