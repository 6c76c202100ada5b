// Package codegen turns component blocks into YAIL forms.
//
// An Emitter resolves each block's component type against a schema.Registry,
// asks a ChildRenderer for the text of attached blocks and assembles one
// form per block. Generate drives an Emitter over a whole workspace.
package codegen

import (
	"strings"

	"github.com/chazu/yailc/pkg/apispec"
	"github.com/chazu/yailc/pkg/ast"
	"github.com/chazu/yailc/pkg/ir"
	"github.com/chazu/yailc/pkg/logger"
	"github.com/chazu/yailc/pkg/schema"
)

// Precedence orders emitted expressions for the renderer that embeds them.
type Precedence int

const (
	PrecedenceAtomic Precedence = 0
	PrecedenceNone   Precedence = 99
)

// Output is the text of one emitted form. Statement forms have Value false.
type Output struct {
	Text  string
	Order Precedence
	Value bool
}

// ChildRenderer renders blocks attached to a block's sockets.
// Both methods return "" when nothing usable is attached.
type ChildRenderer interface {
	RenderValue(b ast.Block, socket string, prec Precedence) (string, error)
	RenderStatements(b ast.Block, socket string) (string, error)
}

// Emitter emits YAIL for component blocks. It is safe for concurrent use
// as long as its registry and renderer are.
type Emitter struct {
	registry schema.Registry
	render   ChildRenderer
	log      logger.Log
	strict   bool
	apiCache *apispec.Cache
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithRenderer replaces the built-in child renderer.
func WithRenderer(r ChildRenderer) Option {
	return func(e *Emitter) { e.render = r }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logger.Log) Option {
	return func(e *Emitter) { e.log = l }
}

// WithStrict controls empty required sockets. When strict they are
// ErrUnboundSocket, otherwise the null literal takes their place.
func WithStrict(strict bool) Option {
	return func(e *Emitter) { e.strict = strict }
}

// WithAPICache sets the cache used to parse API descriptors.
func WithAPICache(c *apispec.Cache) Option {
	return func(e *Emitter) { e.apiCache = c }
}

// New returns a strict Emitter resolving types against reg.
func New(reg schema.Registry, opts ...Option) *Emitter {
	e := &Emitter{
		registry: reg,
		log:      logger.Nop(),
		strict:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.render == nil {
		e.render = NewRenderer(e)
	}
	if e.apiCache == nil {
		e.apiCache = apispec.NewCache()
	}
	return e
}

// Strict reports whether empty required sockets are errors.
func (e *Emitter) Strict() bool { return e.strict }

// Emit emits any component block.
func (e *Emitter) Emit(b ast.Block) (Output, error) {
	var (
		out Output
		err error
	)
	switch v := b.(type) {
	case *ast.EventBlock:
		var text string
		text, err = e.EmitEvent(v)
		out = Output{Text: text, Order: PrecedenceNone}
	case *ast.MethodCallBlock:
		out, err = e.EmitMethodCall(v)
	case *ast.PropertyGetBlock, *ast.PropertySetBlock:
		out, err = e.EmitProperty(v.(ast.Interaction))
	case *ast.ComponentBlock:
		out, err = e.EmitComponent(v)
	default:
		err = errorf(ErrUnsupportedBlock, b, "not a component block")
	}
	if err != nil {
		e.log.Warn("block rejected",
			logger.String("block", b.ID()),
			logger.String("kind", string(b.Kind())),
			logger.Err(err))
		return Output{}, err
	}
	e.log.Debug("emitted form",
		logger.String("block", b.ID()),
		logger.String("kind", string(b.Kind())),
		logger.Int("bytes", len(out.Text)))
	return out, nil
}

func (e *Emitter) resolve(b ast.Interaction) (*schema.ComponentType, error) {
	name := b.Header().TypeName
	if name == "" {
		return nil, errorf(ErrUnresolvedType, b, "block has no component type")
	}
	ct, err := e.registry.ResolveType(name)
	if err != nil {
		return nil, newError(ErrUnresolvedType, b, err.Error(), err)
	}
	return ct, nil
}

// target returns the leading addressing slots of a call or property form:
// 'Instance for instance blocks, <component> 'RuntimeType for generic ones.
func (e *Emitter) target(b ast.Interaction, ct *schema.ComponentType) ([]ir.Node, error) {
	h := b.Header()
	_, bound := b.Value(ast.SocketComponent)
	if !h.Generic {
		inst := h.Instance()
		if inst == "" {
			return nil, errorf(ErrInvalidBinding, b, "instance block without %s", ast.FieldComponentSelector)
		}
		if bound {
			return nil, errorf(ErrInvalidBinding, b, "instance block %s has a %s socket", inst, ast.SocketComponent)
		}
		return []ir.Node{ir.QuoteSym(inst)}, nil
	}

	if inst := h.Instance(); inst != "" {
		return nil, errorf(ErrInvalidBinding, b, "generic block bound to instance %s", inst)
	}
	if !bound {
		return nil, errorf(ErrInvalidBinding, b, "generic block without %s socket", ast.SocketComponent)
	}
	comp, err := e.required(b, ast.SocketComponent)
	if err != nil {
		return nil, err
	}
	return []ir.Node{comp, ir.QuoteSym(ct.RuntimeType())}, nil
}

// value renders the block in socket, returning "" when nothing is attached.
func (e *Emitter) value(b ast.Block, socket string) (string, error) {
	text, err := e.render.RenderValue(b, socket, PrecedenceNone)
	if err != nil {
		return "", blockError(ErrUnsupportedBlock, b, err)
	}
	return strings.TrimSpace(text), nil
}

// required renders a socket that must produce an expression.
func (e *Emitter) required(b ast.Block, socket string) (ir.Node, error) {
	text, err := e.value(b, socket)
	if err != nil {
		return nil, err
	}
	if text != "" {
		return ir.Raw(text), nil
	}
	if e.strict {
		return nil, errorf(ErrUnboundSocket, b, "socket %s is empty", socket)
	}
	return ir.Null, nil
}
