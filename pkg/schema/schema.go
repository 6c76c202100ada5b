// Package schema describes component types: the events, methods and
// properties a block may refer to, and whether a type is backed by an
// external API description.
package schema

import (
	"github.com/pkg/errors"
)

// RuntimePackage prefixes the runtime class of built-in component types.
const RuntimePackage = "com.google.appinventor.components.runtime."

// Param is a named, typed method or event parameter.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// EventSignature declares an event and its canonical parameter names.
type EventSignature struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Params      []Param `json:"params" yaml:"params"`
}

// ParamNames returns the canonical parameter names in order.
func (e *EventSignature) ParamNames() []string {
	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		names[i] = p.Name
	}
	return names
}

// MethodSignature declares a method.
type MethodSignature struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Params      []Param `json:"params" yaml:"params"`
	ReturnType  string  `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	// Continuation selects the blocking call primitive.
	Continuation bool `json:"continuation,omitempty" yaml:"continuation,omitempty"`
}

// HasReturn reports whether calls produce a value.
func (m *MethodSignature) HasReturn() bool {
	return m.ReturnType != ""
}

// ParamTypes returns the declared parameter types in order.
func (m *MethodSignature) ParamTypes() []string {
	types := make([]string, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Type
	}
	return types
}

// PropertySignature declares a property and the type values are coerced to.
type PropertySignature struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	RW   string `json:"rw,omitempty" yaml:"rw,omitempty"`
}

// ComponentType is an immutable component description owned by a Registry.
type ComponentType struct {
	Name string `json:"name" yaml:"name"`
	// Type is the runtime class; generic forms address components by it.
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	NonVisible bool   `json:"nonVisible,omitempty" yaml:"nonVisible,omitempty"`
	IsAPI      bool   `json:"isAPI,omitempty" yaml:"isAPI,omitempty"`
	// APICode is the serialized API descriptor; set iff IsAPI.
	APICode    string              `json:"APICode,omitempty" yaml:"APICode,omitempty"`
	Events     []EventSignature    `json:"events" yaml:"events"`
	Methods    []MethodSignature   `json:"methods" yaml:"methods"`
	Properties []PropertySignature `json:"blockProperties" yaml:"blockProperties"`
}

// RuntimeType returns the runtime type string used by generic forms.
func (c *ComponentType) RuntimeType() string {
	if c.Type != "" {
		return c.Type
	}
	return RuntimePackage + c.Name
}

// Event looks up an event by name.
func (c *ComponentType) Event(name string) (*EventSignature, error) {
	for i := range c.Events {
		if c.Events[i].Name == name {
			return &c.Events[i], nil
		}
	}
	return nil, errors.Wrapf(ErrMemberNotFound, "%s has no event %q", c.Name, name)
}

// Method looks up a method by name.
func (c *ComponentType) Method(name string) (*MethodSignature, error) {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i], nil
		}
	}
	return nil, errors.Wrapf(ErrMemberNotFound, "%s has no method %q", c.Name, name)
}

// Property looks up a property by name.
func (c *ComponentType) Property(name string) (*PropertySignature, error) {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i], nil
		}
	}
	return nil, errors.Wrapf(ErrMemberNotFound, "%s has no property %q", c.Name, name)
}

// Validate checks the structural invariants of a type description.
func (c *ComponentType) Validate() error {
	if c.Name == "" {
		return errors.Wrap(ErrInvalidType, "missing name")
	}
	if c.IsAPI && c.APICode == "" {
		return errors.Wrapf(ErrInvalidType, "%s: API type without APICode", c.Name)
	}
	if !c.IsAPI && c.APICode != "" {
		return errors.Wrapf(ErrInvalidType, "%s: APICode on a non-API type", c.Name)
	}
	if err := uniqueNames("event", c.Name, len(c.Events), func(i int) string { return c.Events[i].Name }); err != nil {
		return err
	}
	if err := uniqueNames("method", c.Name, len(c.Methods), func(i int) string { return c.Methods[i].Name }); err != nil {
		return err
	}
	return uniqueNames("property", c.Name, len(c.Properties), func(i int) string { return c.Properties[i].Name })
}

func uniqueNames(what, typeName string, n int, name func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		nm := name(i)
		if nm == "" {
			return errors.Wrapf(ErrInvalidType, "%s: %s without name", typeName, what)
		}
		if seen[nm] {
			return errors.Wrapf(ErrInvalidType, "%s: duplicate %s %q", typeName, what, nm)
		}
		seen[nm] = true
	}
	return nil
}
