package psys

// DrawRequest is a single particle draw instruction. Position is relative to
// the viewport center with the emitter pivot already applied.
type DrawRequest struct {
	X, Y float64
	// Depth orders particles in 2.5D; lower values are drawn first.
	Depth float64
	// Angle is the rotation in radians.
	Angle float64
	// Scale is the uniform scale factor.
	Scale float64
	// Color is the straight-alpha tint in [0, 1].
	Color  Color
	Blend  BlendMode
	Visual string
	// Frame is the sprite-sheet frame for sprite models, 0 otherwise.
	Frame   int
	Emitter uint32
}

// Renderer receives draw requests during System.UpdateRender. Calls are
// synchronous and must not modify the System.
type Renderer interface {
	DrawParticle(req DrawRequest)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(req DrawRequest)

// DrawParticle implements Renderer.
func (f RendererFunc) DrawParticle(req DrawRequest) { f(req) }

const defaultCommandCap = 1024

// CommandBuffer is a Renderer that records requests so they can be depth
// sorted before submission. Buffers are reused across frames without
// allocating once they reach their high-water mark.
type CommandBuffer struct {
	commands []DrawRequest
	sortBuf  []DrawRequest
}

// NewCommandBuffer returns an empty buffer with a default capacity.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{
		commands: make([]DrawRequest, 0, defaultCommandCap),
		sortBuf:  make([]DrawRequest, 0, defaultCommandCap),
	}
}

// DrawParticle implements Renderer.
func (b *CommandBuffer) DrawParticle(req DrawRequest) {
	b.commands = append(b.commands, req)
}

// Len returns the number of recorded requests.
func (b *CommandBuffer) Len() int { return len(b.commands) }

// Commands returns the recorded requests. The returned slice MUST NOT be
// retained past the next Reset.
func (b *CommandBuffer) Commands() []DrawRequest { return b.commands }

// Reset drops every recorded request.
func (b *CommandBuffer) Reset() { b.commands = b.commands[:0] }

// Flush sorts the recorded requests, replays them into r and resets.
func (b *CommandBuffer) Flush(r Renderer) {
	b.Sort()
	for i := range b.commands {
		r.DrawParticle(b.commands[i])
	}
	b.Reset()
}

// requestLessOrEqual orders by depth. Using <= keeps equal depths in
// submission order.
func requestLessOrEqual(a, b *DrawRequest) bool {
	return a.Depth <= b.Depth
}

// Sort orders the recorded requests by Depth, stable.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (b *CommandBuffer) Sort() {
	n := len(b.commands)
	if n <= 1 {
		return
	}
	if cap(b.sortBuf) < n {
		b.sortBuf = make([]DrawRequest, n)
	}
	b.sortBuf = b.sortBuf[:n]

	src := b.commands
	dst := b.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(src, dst, lo, mid, hi)
		}
		src, dst = dst, src
		swapped = !swapped
	}

	if swapped {
		copy(b.commands, b.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []DrawRequest, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if requestLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
