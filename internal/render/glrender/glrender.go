// Package glrender renders captures on the GPU with OpenGL 4.1. It needs a
// current GL context on the calling thread; see the window package.
package glrender

import (
	"fmt"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/vesselshot/internal/capture"
	"github.com/Faultbox/vesselshot/internal/logger"
	"github.com/Faultbox/vesselshot/internal/render"
	"github.com/Faultbox/vesselshot/internal/scene"
	"github.com/Faultbox/vesselshot/pkg/math"
)

// Renderer draws box surfaces with the capture shading program.
type Renderer struct {
	program uint32
	loc     uniforms
	cubeVAO uint32
	cubeVBO uint32
	log     *zap.Logger
}

// New initializes OpenGL and builds the capture program.
// IMPORTANT: Must be called AFTER the OpenGL context is created.
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{log: logger.Named("glrender")}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	r.program, err = compileProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.loc = locate(r.program)
	r.createCube()
	return r, nil
}

// Close releases the program and the cube mesh.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &r.cubeVAO)
	}
	if r.cubeVBO != 0 {
		gl.DeleteBuffers(1, &r.cubeVBO)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Acquire creates a framebuffer of size.
func (r *Renderer) Acquire(size capture.Size) (capture.Target, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("invalid target size %dx%d", size.Width, size.Height)
	}
	fb, err := newFramebuffer(int32(size.Width), int32(size.Height))
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	r.log.Debug("framebuffer created",
		zap.Uint32("fbo", fb.fbo),
		zap.Int("width", size.Width),
		zap.Int("height", size.Height),
	)
	return fb, nil
}

// Render draws sc into t. Surfaces carrying a capture program are lit with its
// shading; host-program surfaces are drawn flat.
func (r *Renderer) Render(t capture.Target, sc scene.Scene, cam capture.Placement, background color.NRGBA) error {
	fb, ok := t.(*framebuffer)
	if !ok {
		return fmt.Errorf("target %T was not acquired from this renderer", t)
	}
	if fb.fbo == 0 {
		return fmt.Errorf("framebuffer released")
	}

	restore := fb.bind()
	defer restore()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(
		float32(background.R)/255,
		float32(background.G)/255,
		float32(background.B)/255,
		float32(background.A)/255,
	)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	toLight := render.KeyLight(cam)
	toEye := cam.Transform.Forward.Neg()

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.loc.view, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.loc.projection, 1, false, proj.Ptr())
	gl.Uniform3f(r.loc.toLight, toLight.X, toLight.Y, toLight.Z)
	gl.Uniform3f(r.loc.toEye, toEye.X, toEye.Y, toEye.Z)
	gl.BindVertexArray(r.cubeVAO)

	items := render.Collect(sc)
	for _, it := range items {
		r.draw(it)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%x", code)
	}
	r.log.Debug("frame rendered",
		zap.String("scene", sc.Name()),
		zap.Int("surfaces", len(items)),
	)
	return nil
}

func (r *Renderer) draw(it render.Item) {
	c, size := it.Bounds.Center, it.Bounds.Size()
	model := math.Translate(c.X, c.Y, c.Z).Mul(math.Scale(size.X, size.Y, size.Z))
	gl.UniformMatrix4fv(r.loc.model, 1, false, model.Ptr())
	gl.Uniform4f(r.loc.color,
		float32(it.Color.R)/255,
		float32(it.Color.G)/255,
		float32(it.Color.B)/255,
		float32(it.Color.A)/255,
	)

	if it.Shading == nil {
		gl.Uniform1i(r.loc.unlit, 1)
		gl.Uniform1f(r.loc.cutoff, 0)
	} else {
		s := it.Shading
		unlit := int32(0)
		if s.Unlit {
			unlit = 1
		}
		gl.Uniform1i(r.loc.unlit, unlit)
		gl.Uniform1f(r.loc.ambient, s.Ambient)
		gl.Uniform1f(r.loc.diffuse, s.Diffuse)
		gl.Uniform1f(r.loc.specular, s.Specular)
		gl.Uniform1f(r.loc.shininess, s.Shininess)
		gl.Uniform1f(r.loc.emission, s.Emission)
		gl.Uniform1f(r.loc.cutoff, s.Cutoff)
	}
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(cubeVertices)/6))
}

func (r *Renderer) createCube() {
	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, unsafe.Pointer(&cubeVertices[0]), gl.STATIC_DRAW)

	// position (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	// normal (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}
