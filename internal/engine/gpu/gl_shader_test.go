package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimInfoLog(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"nul terminated", []byte("0(12) : error C0000: syntax error\n\x00"), "0(12) : error C0000: syntax error"},
		{"bytes after nul", []byte("bad\x00garbage"), "bad"},
		{"no nul", []byte("warning  \r\n"), "warning"},
		{"empty", []byte{0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trimInfoLog(tt.in))
		})
	}
}

func TestShaderError(t *testing.T) {
	var err error = &ShaderError{Stage: "pixel", Log: "undeclared identifier"}
	assert.EqualError(t, err, "pixel: undeclared identifier")

	var se *ShaderError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "pixel", se.Stage)

	assert.EqualError(t, &ShaderError{Stage: "link"}, "link: failed with empty info log")
}
