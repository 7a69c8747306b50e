package app

import (
	"context"

	"ripples/internal/mesh"
	"ripples/internal/vmath"
)

// surfaceFeed snapshots the surface into a ring of frame resources so a frame
// being presented is never overwritten by the next simulation step.
type surfaceFeed struct {
	ring    *mesh.FrameRing
	fence   *mesh.CounterFence
	normals []vmath.Vec3
	pending uint64
}

func newSurfaceFeed(vertexCount int) *surfaceFeed {
	return &surfaceFeed{
		ring:    mesh.NewFrameRing(mesh.FrameResources, vertexCount),
		fence:   mesh.NewCounterFence(),
		normals: make([]vmath.Vec3, vertexCount),
	}
}

// capture copies s into the next free frame resource, with its texture
// coordinates translated by offset, and returns the normals of that copy.
func (f *surfaceFeed) capture(ctx context.Context, s mesh.Surface, offset [2]float32) ([]vmath.Vec3, error) {
	fr, err := f.ring.Acquire(ctx, f.fence)
	if err != nil {
		return nil, err
	}
	n := mesh.CopySurface(fr.Vertices, s, offset)
	for i := 0; i < n; i++ {
		f.normals[i] = fr.Vertices[i].Normal
	}
	f.pending = f.fence.Next()
	f.ring.Submit(f.pending)
	return f.normals[:n], nil
}

// presented marks the last captured frame as consumed.
func (f *surfaceFeed) presented() {
	f.fence.Signal(f.pending)
}
