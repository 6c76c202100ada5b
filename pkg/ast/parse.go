package ast

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ErrUnknownKind is returned for block types the decoder does not model.
var ErrUnknownKind = errors.New("unknown block type")

// node is the JSON shape of a block as exported by the editor.
type node struct {
	ID            string             `json:"id"`
	Type          Kind               `json:"type"`
	Disabled      bool               `json:"disabled"`
	TypeName      string             `json:"typeName"`
	IsGeneric     bool               `json:"isGeneric"`
	EventName     string             `json:"eventName"`
	MethodName    string             `json:"methodName"`
	SetOrGet      string             `json:"setOrGet"`
	DeclaredNames []string           `json:"declaredNames"`
	Fields        map[string]string  `json:"fields"`
	Values        map[string]*node   `json:"values"`
	Statements    map[string][]*node `json:"statements"`

	Text string      `json:"text"`
	Num  json.Number `json:"num"`
	Bool bool        `json:"bool"`
	Name string      `json:"name"`
}

// Workspace is a decoded set of top-level blocks.
type Workspace struct {
	Blocks []Block
}

type workspaceJSON struct {
	Blocks []*node `json:"blocks"`
}

// Parse reads workspace JSON from a reader.
func Parse(r io.Reader) (*Workspace, error) {
	var w workspaceJSON
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(err, "failed to parse workspace")
	}
	return build(w)
}

// ParseBytes parses workspace JSON from a byte slice.
func ParseBytes(data []byte) (*Workspace, error) {
	var w workspaceJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "failed to parse workspace")
	}
	return build(w)
}

// ParseBlock parses a single block.
func ParseBlock(data []byte) (Block, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "failed to parse block")
	}
	return convert(&n, "")
}

func build(w workspaceJSON) (*Workspace, error) {
	ws := &Workspace{Blocks: make([]Block, 0, len(w.Blocks))}
	for i, n := range w.Blocks {
		b, err := convert(n, "blocks["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		ws.Blocks = append(ws.Blocks, b)
	}
	return ws, nil
}

func convert(n *node, path string) (Block, error) {
	if n == nil {
		return nil, errors.Errorf("%s: null block", path)
	}
	base, err := convertBase(n, path)
	if err != nil {
		return nil, err
	}
	comp := Component{Base: base, TypeName: n.TypeName, Generic: n.IsGeneric}

	switch n.Type {
	case KindEvent:
		return &EventBlock{Component: comp, EventName: n.EventName, DeclaredNames: n.DeclaredNames}, nil
	case KindMethod:
		return &MethodCallBlock{Component: comp, MethodName: n.MethodName}, nil
	case KindSetGet:
		switch n.SetOrGet {
		case "set":
			return &PropertySetBlock{Component: comp}, nil
		case "get":
			return &PropertyGetBlock{Component: comp}, nil
		default:
			return nil, errors.Errorf("%s: setOrGet must be \"set\" or \"get\", got %q", path, n.SetOrGet)
		}
	case KindComponent:
		return &ComponentBlock{Component: comp}, nil
	case KindText:
		return &TextBlock{Base: base, Text: n.Text}, nil
	case KindNumber:
		if n.Num == "" {
			return nil, errors.Errorf("%s: number block without value", path)
		}
		return &NumberBlock{Base: base, Num: n.Num.String()}, nil
	case KindBoolean:
		return &BooleanBlock{Base: base, Bool: n.Bool}, nil
	case KindLocalGet:
		return &LocalGetBlock{Base: base, Name: n.Name}, nil
	case KindNull:
		return &NullBlock{Base: base}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%s: %q", path, n.Type)
	}
}

func convertBase(n *node, path string) (Base, error) {
	base := Base{
		BlockID: n.ID,
		Off:     n.Disabled,
		Fields:  n.Fields,
	}
	if len(n.Values) > 0 {
		base.Values = make(map[string]Block, len(n.Values))
		for socket, child := range n.Values {
			if child == nil {
				continue
			}
			b, err := convert(child, path+"."+socket)
			if err != nil {
				return Base{}, err
			}
			base.Values[socket] = b
		}
	}
	if len(n.Statements) > 0 {
		base.Statement = make(map[string][]Block, len(n.Statements))
		for socket, children := range n.Statements {
			seq := make([]Block, 0, len(children))
			for i, child := range children {
				b, err := convert(child, path+"."+socket+"["+strconv.Itoa(i)+"]")
				if err != nil {
					return Base{}, err
				}
				seq = append(seq, b)
			}
			base.Statement[socket] = seq
		}
	}
	return base, nil
}
