package mesh

import (
	"encoding/binary"
	"math"
)

// VertexStride is the packed size of a Vertex in bytes.
const VertexStride = 32

// Encode appends the little-endian packed form of vertices to dst.
func Encode(dst []byte, vertices []Vertex) []byte {
	for _, v := range vertices {
		dst = appendFloats(dst,
			v.Pos.X, v.Pos.Y, v.Pos.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.TexC[0], v.TexC[1])
	}
	return dst
}

// EncodeIndices appends little-endian uint16 indices to dst.
func EncodeIndices(dst []byte, indices []uint16) []byte {
	for _, i := range indices {
		dst = binary.LittleEndian.AppendUint16(dst, i)
	}
	return dst
}

func appendFloats(dst []byte, vals ...float32) []byte {
	for _, f := range vals {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
