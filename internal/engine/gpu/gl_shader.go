package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShaderError reports a failed compile or link with the driver's info log.
type ShaderError struct {
	Stage string // "vertex", "pixel" or "link"
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("%s: failed with empty info log", e.Stage)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Log)
}

type shaderStage struct {
	name string
	kind uint32
}

var (
	vertexStage = shaderStage{name: "vertex", kind: gl.VERTEX_SHADER}
	pixelStage  = shaderStage{name: "pixel", kind: gl.FRAGMENT_SHADER}
)

// linkProgram compiles both stages and links them into a program. The stage
// objects are deleted before returning in every case.
func linkProgram(vertexSrc, pixelSrc string) (uint32, error) {
	program := gl.CreateProgram()

	for _, s := range []struct {
		stage  shaderStage
		source string
	}{{vertexStage, vertexSrc}, {pixelStage, pixelSrc}} {
		shader, err := compileShader(s.stage, s.source)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, shader)
		// Flagged for deletion; freed once the program is deleted.
		gl.DeleteShader(shader)
	}

	gl.LinkProgram(program)
	if err := checkStatus(program, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog, "link"); err != nil {
		gl.DeleteProgram(program)
		return 0, err
	}
	return program, nil
}

func compileShader(stage shaderStage, source string) (uint32, error) {
	shader := gl.CreateShader(stage.kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	if err := checkStatus(shader, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog, stage.name); err != nil {
		gl.DeleteShader(shader)
		return 0, err
	}
	return shader, nil
}

// checkStatus reads a compile or link status and wraps the info log in a
// ShaderError when it is false. Shaders and programs share the query shape.
func checkStatus(
	obj, statusParam uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8),
	stage string,
) error {
	var status int32
	getiv(obj, statusParam, &status)
	if status != gl.FALSE {
		return nil
	}

	var logLen int32
	getiv(obj, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return &ShaderError{Stage: stage}
	}
	buf := make([]byte, logLen)
	getLog(obj, logLen, nil, &buf[0])
	return &ShaderError{Stage: stage, Log: trimInfoLog(buf)}
}

// trimInfoLog drops the terminating NUL and trailing whitespace of a driver log.
func trimInfoLog(buf []byte) string {
	if i := strings.IndexByte(string(buf), 0); i >= 0 {
		buf = buf[:i]
	}
	return strings.TrimRight(string(buf), " \r\n\t")
}

// bindSlots wires uniform blocks and samplers to their slots.
func bindSlots(program uint32, src ProgramSource) error {
	for name, slot := range src.UniformBlocks {
		idx := gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
		if idx == gl.INVALID_INDEX {
			return fmt.Errorf("uniform block %q not found", name)
		}
		gl.UniformBlockBinding(program, idx, uint32(slot))
	}

	gl.UseProgram(program)
	for name, unit := range src.Samplers {
		loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		if loc < 0 {
			return fmt.Errorf("sampler %q not found", name)
		}
		gl.Uniform1i(loc, int32(unit))
	}
	gl.UseProgram(0)
	return nil
}
