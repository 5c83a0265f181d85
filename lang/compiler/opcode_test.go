package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeStringKnown(t *testing.T) {
	assert.Equal(t, "return", Return.String())
	assert.Equal(t, "top", Top.String())
	assert.Equal(t, "close_upvalue", CloseUpvalue.String())
}

func TestOpcodeStringOutOfRange(t *testing.T) {
	assert.Equal(t, "illegal opcode (255)", Opcode(255).String())
}
