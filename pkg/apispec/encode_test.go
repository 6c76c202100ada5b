package apispec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petDescriptor = `{
  "serverUrl": "https://petstore.example/v1",
  "functions": [
    {"name": "get_listPets", "path": "/pets", "params": [{"name": "limit", "paramType": "query"}]},
    {"name": "get_showPetById", "path": "/pets/{petId}", "description": "Info for a \"specific\" pet", "params": [{"name": "petId", "paramType": "path"}]}
  ]
}`

func TestEncodeRoundTrip(t *testing.T) {
	out, err := Encode("Foo", `{"serverUrl": "https://x", "functions": [{"name": "Foo"}]}`)
	require.NoError(t, err)
	assert.Equal(t, `{\"serverUrl\":\"https://x\",\"funcInfo\":{\"name\":\"Foo\"}}`, out)

	p, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "https://x", p.ServerURL)

	var fn struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(p.FuncInfo, &fn))
	assert.Equal(t, "Foo", fn.Name)
}

func TestEncodeKeepsFunctionFields(t *testing.T) {
	out, err := Encode("get_showPetById", petDescriptor)
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")

	p, err := Decode(out)
	require.NoError(t, err)
	var fn FunctionInfo
	require.NoError(t, json.Unmarshal(p.FuncInfo, &fn))
	assert.Equal(t, "/pets/{petId}", fn.Path)
	assert.Equal(t, `Info for a "specific" pet`, fn.Description)
	assert.Equal(t, []ParamInfo{{Name: "petId", ParamType: "path"}}, fn.Params)
}

func TestEncodeEscapesForStringLiteral(t *testing.T) {
	out, err := Encode("get_showPetById", petDescriptor)
	require.NoError(t, err)

	// Every double quote in the output must be preceded by an odd number of
	// backslashes, otherwise it would end the surrounding literal.
	for i := 0; i < len(out); i++ {
		if out[i] != '"' {
			continue
		}
		n := 0
		for j := i - 1; j >= 0 && out[j] == '\\'; j-- {
			n++
		}
		assert.Equal(t, 1, n%2, "unescaped quote at %d in %s", i, out)
	}
}

func TestEncodeUnmatchedFunction(t *testing.T) {
	_, err := Encode("post_createPets", petDescriptor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFunctionNotFound))
	assert.Contains(t, err.Error(), "post_createPets")
}

func TestEncodeInvalidDescriptor(t *testing.T) {
	tests := []string{
		`not json`,
		`{"serverUrl": "x", "functions": [42]}`,
		`{"serverUrl": 7}`,
	}
	for _, d := range tests {
		_, err := Encode("Foo", d)
		assert.True(t, errors.Is(err, ErrInvalidDescriptor), "descriptor %s: %v", d, err)
	}
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	out, err := Encode("q", `{"serverUrl": "https://x/?a=1&b=<2>", "functions": [{"name": "q"}]}`)
	require.NoError(t, err)
	assert.Contains(t, out, "a=1&b=<2>")
}

func TestCacheParsesOnce(t *testing.T) {
	c := NewCache()
	a, err := c.Parse(petDescriptor)
	require.NoError(t, err)
	b, err := c.Parse(petDescriptor)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Len())

	_, err = c.Parse(`{"serverUrl": "y", "functions": []}`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = c.Parse("broken")
	assert.Error(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestCacheBounded(t *testing.T) {
	c := NewCache()
	for i := 0; i <= maxCacheEntries; i++ {
		_, err := c.Parse(`{"serverUrl": "` + strings.Repeat("x", i) + `", "functions": []}`)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, c.Len(), maxCacheEntries)
}

func TestSpecLookupFirstMatch(t *testing.T) {
	spec, err := ParseSpec(`{"serverUrl": "s", "functions": [{"name": "a", "n": 1}, {"name": "a", "n": 2}]}`)
	require.NoError(t, err)
	fn, err := spec.Lookup("a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "a", "n": 1}`, string(fn.Raw))
}

// Encoding then decoding recovers the server URL and the function name for
// arbitrary text, including quotes and backslashes.
func TestPropertyEncodeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("decode(encode(d)) recovers serverUrl and funcInfo.name", prop.ForAll(
		func(server, name string) bool {
			doc, err := json.Marshal(map[string]any{
				"serverUrl": server,
				"functions": []map[string]any{{"name": name, "path": "/" + name}},
			})
			if err != nil {
				return false
			}
			out, err := EncodeWith(NewCache(), name, string(doc))
			if err != nil {
				return false
			}
			p, err := Decode(out)
			if err != nil {
				return false
			}
			var fn FunctionInfo
			if err := json.Unmarshal(p.FuncInfo, &fn); err != nil {
				return false
			}
			return p.ServerURL == server && fn.Name == name
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("missing function never yields a payload", prop.ForAll(
		func(name string) bool {
			_, err := EncodeWith(NewCache(), name+"_missing", `{"serverUrl": "s", "functions": []}`)
			return errors.Is(err, ErrFunctionNotFound)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
