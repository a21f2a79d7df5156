package astjson_test

import (
	"encoding/json"
	"testing"

	"github.com/cmlang/cmc/pkg/astjson"
	"github.com/cmlang/cmc/pkg/diag"
	"github.com/cmlang/cmc/pkg/lexer"
	"github.com/cmlang/cmc/pkg/parser"
	"github.com/stretchr/testify/assert"
)

func TestMarshalProgramShape(t *testing.T) {
	_, report := diag.Collect()
	p := parser.New(lexer.New([]byte("fn f() { let x: i64 = 42; }")), report)
	prog := p.Parse()

	data, err := astjson.MarshalProgram(prog)
	assert.NoError(t, err)

	var decoded []map[string]any
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 1)
	assert.Equal(t, "FunctionDeclaration", decoded[0]["kind"])
	assert.Equal(t, "f", decoded[0]["name"])

	block := decoded[0]["children"].([]any)[1].(map[string]any)
	assert.Equal(t, "BlockStatement", block["kind"])

	varDecl := block["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "VariableDeclaration", varDecl["kind"])
	assert.Equal(t, "Integer64", varDecl["type"].(map[string]any)["ftype"])
}
