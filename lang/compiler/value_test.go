package compiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullValueMarshalsAsBareNull(t *testing.T) {
	b, err := (&NullValue{}).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestIntegerValueEnvelope(t *testing.T) {
	b, err := (&IntegerValue{Num: 42}).MarshalJSON()
	require.NoError(t, err)

	var decoded struct {
		Type string `json:"type"`
		Data int64  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "Integer", decoded.Type)
	assert.Equal(t, int64(42), decoded.Data)
}

func TestModuleValueEnvelopedVsBareArtifact(t *testing.T) {
	mv := &ModuleValue{GlobalsCount: 2, Chunk: &Chunk{Code: codeBytes{1, 2, 3}}}

	enveloped, err := mv.MarshalJSON()
	require.NoError(t, err)
	var asEnvelope struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(enveloped, &asEnvelope))
	assert.Equal(t, "Module", asEnvelope.Type)

	bare, err := mv.ArtifactJSON()
	require.NoError(t, err)
	var asArtifact struct {
		GlobalsCount int `json:"globals_count"`
	}
	require.NoError(t, json.Unmarshal(bare, &asArtifact))
	assert.Equal(t, 2, asArtifact.GlobalsCount)

	var asEnvelopeCheck map[string]interface{}
	require.NoError(t, json.Unmarshal(bare, &asEnvelopeCheck))
	_, hasTypeField := asEnvelopeCheck["type"]
	assert.False(t, hasTypeField, "bare artifact JSON must not carry the Value envelope's type field")
}

func TestCodeBytesMarshalsAsPlainIntArray(t *testing.T) {
	b, err := codeBytes{0, 1, 255}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[0,1,255]", string(b))
}
