// Package schema holds the flatbuffer bindings for battlecode.fbs, written
// in flatc's Go layout. Slot numbers must stay in step with the schema file.
package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Vector helpers shared by the replay and map file writers. Vectors must be
// created before the table that references them is started.

// CreateInt32Vector writes vals as a vector of int32.
func CreateInt32Vector(b *flatbuffers.Builder, vals []int32) flatbuffers.UOffsetT {
	b.StartVector(4, len(vals), 4)
	for i := len(vals) - 1; i >= 0; i-- {
		b.PrependInt32(vals[i])
	}
	return b.EndVector(len(vals))
}

// CreateInt8Vector writes vals as a vector of int8.
func CreateInt8Vector(b *flatbuffers.Builder, vals []int8) flatbuffers.UOffsetT {
	b.StartVector(1, len(vals), 1)
	for i := len(vals) - 1; i >= 0; i-- {
		b.PrependInt8(vals[i])
	}
	return b.EndVector(len(vals))
}

// CreateBoolVector writes vals as a vector of bool.
func CreateBoolVector(b *flatbuffers.Builder, vals []bool) flatbuffers.UOffsetT {
	b.StartVector(1, len(vals), 1)
	for i := len(vals) - 1; i >= 0; i-- {
		b.PrependBool(vals[i])
	}
	return b.EndVector(len(vals))
}

// CreateOffsetVector writes a vector of already-built tables or strings.
func CreateOffsetVector(b *flatbuffers.Builder, offsets []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b.StartVector(4, len(offsets), 4)
	for i := len(offsets) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offsets[i])
	}
	return b.EndVector(len(offsets))
}

// CreateStringVector writes vals as a vector of strings.
func CreateStringVector(b *flatbuffers.Builder, vals []string) flatbuffers.UOffsetT {
	offsets := make([]flatbuffers.UOffsetT, len(vals))
	for i, s := range vals {
		offsets[i] = b.CreateString(s)
	}
	return CreateOffsetVector(b, offsets)
}

// CreateVecTable writes parallel coordinate vectors.
func CreateVecTable(b *flatbuffers.Builder, xs, ys []int32) flatbuffers.UOffsetT {
	xv := CreateInt32Vector(b, xs)
	yv := CreateInt32Vector(b, ys)
	VecTableStart(b)
	VecTableAddXs(b, xv)
	VecTableAddYs(b, yv)
	return VecTableEnd(b)
}

// VectorFits reports whether the vector in a table slot, with elements of
// elemSize bytes, ends inside the buffer. An absent vector fits. Readers check
// this before sizing an allocation from the vector's length.
func VectorFits(tab flatbuffers.Table, slot, elemSize int) bool {
	o := flatbuffers.UOffsetT(tab.Offset(flatbuffers.VOffsetT(4 + 2*slot)))
	if o == 0 {
		return true
	}
	start := int(tab.Vector(o))
	if start > len(tab.Bytes) {
		return false
	}
	return tab.VectorLen(o) <= (len(tab.Bytes)-start)/elemSize
}
