package renderer2d

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/biscuit/engine/geom"
	"github.com/hubastard/biscuit/engine/gfx"
)

// Every routine rebinds the program, buffers and texture it needs: the GPU
// state left by the previous command is never assumed.

func (rd *Renderer2D) executeImage(cmd *DrawCommand) Result {
	if rd.textured == nil || rd.quadVBO == 0 || rd.quadUVBO == 0 {
		return skipped(cmd.Kind, ReasonNoShader)
	}
	if !cmd.Image.IsLoaded() {
		return skipped(cmd.Kind, ReasonNotLoaded)
	}
	tex := rd.textures.EnsureImage(cmd.Image)
	if tex == 0 {
		return skipped(cmd.Kind, ReasonNoTexture)
	}

	sh := rd.textured
	sh.Use()
	rd.bindQuad(sh, true)
	rd.setTransforms(sh, quadModel(cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Rotation))

	rd.dev.ActiveTexture(0)
	rd.dev.BindTexture(tex)
	sh.SetInt("u_texture", 0)
	sh.SetFloat("u_alpha", cmd.Alpha)

	rd.drawArrays(gfx.Triangles, int32(geom.QuadVertexCount))
	return executed(cmd.Kind)
}

func (rd *Renderer2D) executeRect(cmd *DrawCommand) Result {
	if rd.color == nil || rd.quadVBO == 0 {
		return skipped(cmd.Kind, ReasonNoShader)
	}

	sh := rd.color
	sh.Use()
	rd.bindQuad(sh, false)
	rd.setTransforms(sh, quadModel(cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Rotation))
	sh.SetVec4("u_color", cmd.Color.RGBA())

	rd.drawArrays(gfx.Triangles, int32(geom.QuadVertexCount))
	return executed(cmd.Kind)
}

func (rd *Renderer2D) executeCircle(cmd *DrawCommand) Result {
	if rd.color == nil {
		return skipped(cmd.Kind, ReasonNoShader)
	}

	verts := geom.CircleFan(cmd.Radius, cmd.Segments)
	buf := rd.geometry.Acquire(verts)
	if buf == 0 {
		return skipped(cmd.Kind, ReasonNoGeometry)
	}
	defer rd.geometry.Release(buf)

	sh := rd.color
	sh.Use()
	rd.bindAttrib(sh, "a_position", buf)

	// NOTE: quads negate the rotation, circles use it as is. Most likely an
	// accident, but scenes already rely on the current look.
	model := mgl32.Translate3D(cmd.X, cmd.Y, 0).Mul4(mgl32.HomogRotate3DZ(cmd.Rotation))
	rd.setTransforms(sh, model)
	sh.SetVec4("u_color", cmd.Color.RGBA())

	rd.drawArrays(gfx.TriangleFan, int32(len(verts)/2))
	return executed(cmd.Kind)
}

func (rd *Renderer2D) executeText(cmd *DrawCommand) Result {
	if rd.textured == nil || rd.quadVBO == 0 || rd.quadUVBO == 0 {
		return skipped(cmd.Kind, ReasonNoShader)
	}
	if rd.text == nil {
		return skipped(cmd.Kind, ReasonNoRasterizer)
	}

	pixels, err := rd.text.Rasterize(cmd.Text, cmd.Color.RGBA(), cmd.TextOpts)
	if err != nil || pixels == nil {
		return skipped(cmd.Kind, ReasonRasterizeFail)
	}
	rd.dev.ActiveTexture(0)
	tex := rd.textures.EnsureText(cmd.Text, pixels)
	if tex == 0 {
		return skipped(cmd.Kind, ReasonNoTexture)
	}

	sh := rd.textured
	sh.Use()
	rd.bindQuad(sh, true)

	// Text always covers half the canvas; the font size only changes the
	// glyphs inside it.
	cw, ch := rd.text.Size()
	cmd.W, cmd.H = float32(cw)/2, float32(ch)/2
	rd.setTransforms(sh, quadModel(cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Rotation))

	rd.dev.BindTexture(tex)
	sh.SetInt("u_texture", 0)
	sh.SetFloat("u_alpha", 1)

	rd.drawArrays(gfx.Triangles, int32(geom.QuadVertexCount))
	return executed(cmd.Kind)
}

// --- shared helpers ---

func (rd *Renderer2D) bindQuad(sh *gfx.Shader, withUV bool) {
	rd.bindAttrib(sh, "a_position", rd.quadVBO)
	if withUV {
		rd.bindAttrib(sh, "a_uv", rd.quadUVBO)
	}
}

// bindAttrib points the named 2-component input at buf. Inputs the program
// does not declare are left alone.
func (rd *Renderer2D) bindAttrib(sh *gfx.Shader, name string, buf gfx.Handle) {
	loc := sh.AttribLocation(name)
	if loc < 0 {
		return
	}
	rd.dev.BindBuffer(buf)
	rd.dev.EnableVertexAttribArray(loc)
	rd.dev.VertexAttribPointer(loc, 2)
}

func (rd *Renderer2D) setTransforms(sh *gfx.Shader, model mgl32.Mat4) {
	view, proj := mgl32.Ident4(), mgl32.Ident4()
	if rd.camera != nil {
		view, proj = rd.camera.View(), rd.camera.Projection()
	}
	sh.SetMat4("u_model", model)
	sh.SetMat4("u_view", view)
	sh.SetMat4("u_projection", proj)
}

// quadModel places the unit quad centered at (x,y), scaled to w*h and
// rotated about its own center. Rotation is negated: callers pass screen
// (clockwise) angles, the matrix works counter-clockwise.
func quadModel(x, y, w, h, rotation float32) mgl32.Mat4 {
	px, py := w/2, h/2
	return mgl32.Translate3D(x-w/2+px, y-h/2+py, 0).
		Mul4(mgl32.HomogRotate3DZ(-rotation)).
		Mul4(mgl32.Translate3D(-px, -py, 0)).
		Mul4(mgl32.Scale3D(w, h, 1))
}
