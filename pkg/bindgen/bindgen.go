// Package bindgen renders a set of component types as Go source that
// registers them, so a registry can be compiled into a binary instead of
// loaded from descriptor files at startup.
package bindgen

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/chazu/yailc/pkg/schema"
	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"
)

const schemaPath = "github.com/chazu/yailc/pkg/schema"

// Generate returns the source of package pkg declaring Types, SourceHash
// and Register for the given component types, ordered by name.
func Generate(pkg string, types []*schema.ComponentType) (string, error) {
	if pkg == "" {
		return "", errors.New("bindgen: empty package name")
	}
	sorted := make([]*schema.ComponentType, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	hash, err := contentHash(sorted)
	if err != nil {
		return "", err
	}

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by yailc -mode bindings. DO NOT EDIT.")

	f.Comment("SourceHash identifies the descriptors these bindings were generated from.")
	f.Const().Id("SourceHash").Op("=").Lit(hash)
	f.Line()

	items := make([]jen.Code, len(sorted))
	for i, ct := range sorted {
		items[i] = componentType(ct)
	}
	f.Comment("Types lists the generated component types.")
	f.Var().Id("Types").Op("=").Index().Qual(schemaPath, "ComponentType").Values(items...)
	f.Line()

	f.Comment("Register adds Types to reg.")
	f.Func().Id("Register").Params(jen.Id("reg").Op("*").Qual(schemaPath, "MemoryRegistry")).Error().Block(
		jen.Return(jen.Id("reg").Dot("RegisterAll").Call(jen.Id("Types"))),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", errors.Wrap(err, "rendering bindings")
	}
	return buf.String(), nil
}

func contentHash(types []*schema.ComponentType) (string, error) {
	data, err := json.Marshal(types)
	if err != nil {
		return "", errors.Wrap(err, "hashing descriptors")
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

func componentType(ct *schema.ComponentType) jen.Code {
	d := jen.Dict{jen.Id("Name"): jen.Lit(ct.Name)}
	if ct.Type != "" {
		d[jen.Id("Type")] = jen.Lit(ct.Type)
	}
	if ct.NonVisible {
		d[jen.Id("NonVisible")] = jen.True()
	}
	if ct.IsAPI {
		d[jen.Id("IsAPI")] = jen.True()
		d[jen.Id("APICode")] = jen.Lit(ct.APICode)
	}
	if len(ct.Events) > 0 {
		evs := make([]jen.Code, len(ct.Events))
		for i, ev := range ct.Events {
			ed := jen.Dict{jen.Id("Name"): jen.Lit(ev.Name)}
			if ev.Description != "" {
				ed[jen.Id("Description")] = jen.Lit(ev.Description)
			}
			if len(ev.Params) > 0 {
				ed[jen.Id("Params")] = params(ev.Params)
			}
			evs[i] = jen.Values(ed)
		}
		d[jen.Id("Events")] = jen.Index().Qual(schemaPath, "EventSignature").Values(evs...)
	}
	if len(ct.Methods) > 0 {
		ms := make([]jen.Code, len(ct.Methods))
		for i, m := range ct.Methods {
			md := jen.Dict{jen.Id("Name"): jen.Lit(m.Name)}
			if m.Description != "" {
				md[jen.Id("Description")] = jen.Lit(m.Description)
			}
			if len(m.Params) > 0 {
				md[jen.Id("Params")] = params(m.Params)
			}
			if m.ReturnType != "" {
				md[jen.Id("ReturnType")] = jen.Lit(m.ReturnType)
			}
			if m.Continuation {
				md[jen.Id("Continuation")] = jen.True()
			}
			ms[i] = jen.Values(md)
		}
		d[jen.Id("Methods")] = jen.Index().Qual(schemaPath, "MethodSignature").Values(ms...)
	}
	if len(ct.Properties) > 0 {
		ps := make([]jen.Code, len(ct.Properties))
		for i, p := range ct.Properties {
			pd := jen.Dict{jen.Id("Name"): jen.Lit(p.Name), jen.Id("Type"): jen.Lit(p.Type)}
			if p.RW != "" {
				pd[jen.Id("RW")] = jen.Lit(p.RW)
			}
			ps[i] = jen.Values(pd)
		}
		d[jen.Id("Properties")] = jen.Index().Qual(schemaPath, "PropertySignature").Values(ps...)
	}
	return jen.Values(d)
}

func params(ps []schema.Param) jen.Code {
	items := make([]jen.Code, len(ps))
	for i, p := range ps {
		items[i] = jen.Values(jen.Dict{jen.Id("Name"): jen.Lit(p.Name), jen.Id("Type"): jen.Lit(p.Type)})
	}
	return jen.Index().Qual(schemaPath, "Param").Values(items...)
}
