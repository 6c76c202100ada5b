package apispec

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/chazu/yailc/pkg/schema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RuntimeClass is the runtime component that executes invokeAPI.
const RuntimeClass = schema.RuntimePackage + "OpenAPI"

// Names fixed by the OpenAPI runtime component.
const (
	InvokeMethod      = "invokeAPI"
	ResponseEvent     = "GotResponse"
	TimedOutEvent     = "TimedOut"
	RequestHeaderProp = "RequestHeader"
)

// Parameter locations understood by the runtime.
const (
	ParamPath  = "path"
	ParamQuery = "query"
	ParamData  = "data"
)

// operationVerbs lists the path-item keys treated as operations, in the
// order they are emitted.
var operationVerbs = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// pastTense maps a verb to the prefix of the callback event fired with the response.
var pastTense = map[string]string{
	"get":     "got",
	"put":     "put",
	"post":    "posted",
	"delete":  "deleted",
	"options": "gotOptions",
	"head":    "putHead",
	"patch":   "patched",
	"trace":   "gotTrace",
}

// FunctionInfo is the descriptor of one imported operation.
type FunctionInfo struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	Description string      `json:"description,omitempty"`
	Deprecated  bool        `json:"deprecated"`
	Params      []ParamInfo `json:"params"`
}

// ParamInfo tells the runtime where an argument goes in the request.
type ParamInfo struct {
	Name      string `json:"name"`
	ParamType string `json:"paramType"`
}

// Descriptor is the serialized form stored in ComponentType.APICode.
type Descriptor struct {
	ServerURL string         `json:"serverUrl"`
	Functions []FunctionInfo `json:"functions"`
}

// ImportOptions adjusts Import.
type ImportOptions struct {
	// Name overrides the component type name derived from info.title.
	Name string
	// ServerURL overrides servers[0].url.
	ServerURL string
}

type openAPIDoc struct {
	Info struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"info"`
	Servers []struct {
		URL string `yaml:"url"`
	} `yaml:"servers"`
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

type openAPIParam struct {
	Name string `yaml:"name"`
	In   string `yaml:"in"`
}

type openAPIOperation struct {
	OperationID string         `yaml:"operationId"`
	Summary     string         `yaml:"summary"`
	Description string         `yaml:"description"`
	Deprecated  bool           `yaml:"deprecated"`
	Parameters  []openAPIParam `yaml:"parameters"`
	RequestBody *struct {
		Content map[string]struct {
			Schema struct {
				Properties map[string]yaml.Node `yaml:"properties"`
			} `yaml:"schema"`
		} `yaml:"content"`
	} `yaml:"requestBody"`
}

// Import converts an OpenAPI document, in JSON or YAML, into an API-backed
// component type. Each operation becomes a method named <verb>_<operationId>
// whose descriptor is stored in the type's APICode.
func Import(r io.Reader, opts ImportOptions) (*schema.ComponentType, error) {
	var doc openAPIDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(ErrInvalidDocument, err.Error())
	}

	name := opts.Name
	if name == "" {
		name = identifier(doc.Info.Title)
	}
	if name == "" {
		return nil, errors.Wrap(ErrInvalidDocument, "missing info.title")
	}

	desc := Descriptor{ServerURL: opts.ServerURL}
	if desc.ServerURL == "" && len(doc.Servers) > 0 {
		desc.ServerURL = doc.Servers[0].URL
	}

	ct := &schema.ComponentType{
		Name:       name,
		Type:       RuntimeClass,
		NonVisible: true,
		IsAPI:      true,
		Events: []schema.EventSignature{
			{Name: ResponseEvent, Params: []schema.Param{{Name: "response", Type: "dictionary"}}},
			{Name: TimedOutEvent, Params: []schema.Param{{Name: "url", Type: "text"}}},
		},
		Properties: []schema.PropertySignature{{Name: RequestHeaderProp, Type: "text", RW: "read-write"}},
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths[path]
		var shared []openAPIParam
		if n, ok := item["parameters"]; ok {
			if err := n.Decode(&shared); err != nil {
				return nil, errors.Wrapf(ErrInvalidDocument, "%s parameters: %v", path, err)
			}
		}
		for _, verb := range operationVerbs {
			n, ok := item[verb]
			if !ok {
				continue
			}
			var op openAPIOperation
			if err := n.Decode(&op); err != nil {
				return nil, errors.Wrapf(ErrInvalidDocument, "%s %s: %v", verb, path, err)
			}
			fn := buildFunction(verb, path, op, shared)
			desc.Functions = append(desc.Functions, fn)

			params := make([]schema.Param, len(fn.Params))
			for i, p := range fn.Params {
				params[i] = schema.Param{Name: p.Name, Type: "any"}
			}
			ct.Methods = append(ct.Methods, schema.MethodSignature{
				Name:        fn.Name,
				Description: fn.Description,
				Params:      params,
			})
			ct.Events = append(ct.Events, schema.EventSignature{
				Name:   CallbackEvent(fn.Name),
				Params: []schema.Param{{Name: "response", Type: "dictionary"}},
			})
		}
	}

	code, err := json.Marshal(desc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding descriptor")
	}
	ct.APICode = string(code)

	if err := ct.Validate(); err != nil {
		return nil, err
	}
	return ct, nil
}

func buildFunction(verb, path string, op openAPIOperation, shared []openAPIParam) FunctionInfo {
	opID := op.OperationID
	if opID == "" {
		opID = identifier(path)
	}
	description := op.Description
	if description == "" {
		description = op.Summary
	}
	fn := FunctionInfo{
		Name:        verb + "_" + opID,
		Path:        path,
		Description: description,
		Deprecated:  op.Deprecated,
		Params:      []ParamInfo{},
	}

	// operation parameters override path-level ones with the same name and location
	seen := make(map[string]bool)
	for _, p := range op.Parameters {
		if loc := paramType(p.In); loc != "" {
			fn.Params = append(fn.Params, ParamInfo{Name: p.Name, ParamType: loc})
			seen[p.In+":"+p.Name] = true
		}
	}
	for _, p := range shared {
		if loc := paramType(p.In); loc != "" && !seen[p.In+":"+p.Name] {
			fn.Params = append(fn.Params, ParamInfo{Name: p.Name, ParamType: loc})
		}
	}

	if op.RequestBody != nil {
		if media, ok := op.RequestBody.Content["application/json"]; ok {
			props := make([]string, 0, len(media.Schema.Properties))
			for k := range media.Schema.Properties {
				props = append(props, k)
			}
			sort.Strings(props)
			for _, k := range props {
				fn.Params = append(fn.Params, ParamInfo{Name: k, ParamType: ParamData})
			}
		}
	}
	return fn
}

// paramType maps an OpenAPI parameter location to the runtime's; header and
// cookie parameters are not passed per call.
func paramType(in string) string {
	switch in {
	case "path":
		return ParamPath
	case "query":
		return ParamQuery
	default:
		return ""
	}
}

// CallbackEvent returns the event the runtime fires with the response of
// function name, e.g. get_listPets -> got_listPets. Callback and TimedOut
// events are declared for the editor palette; emitted handlers on an API
// component always listen for ResponseEvent.
func CallbackEvent(name string) string {
	verb, rest, found := strings.Cut(name, "_")
	past, ok := pastTense[verb]
	if !ok {
		return name
	}
	if !found {
		return past
	}
	return past + "_" + rest
}

// identifier keeps the letters, digits and underscores of s, dropping a
// leading digit run, e.g. "Swagger Petstore" -> "SwaggerPetstore".
func identifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if b.Len() > 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
