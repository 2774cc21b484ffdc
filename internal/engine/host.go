package engine

// FrameID identifies a scheduled frame callback. Zero means none.
type FrameID uint64

// FrameScheduler runs callbacks before the next displayed frame.
// Cancelling an unknown or already run id is a no-op.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Surface is the seekable media element being scrubbed.
type Surface interface {
	CurrentTime() float64
	SetCurrentTime(t float64)
	Pause()
}

// Viewport reports the current screen size in pixels. It is read on every
// move so resizes are picked up.
type Viewport interface {
	Size() (width, height float64)
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() (float64, float64)

func (f ViewportFunc) Size() (float64, float64) { return f() }
