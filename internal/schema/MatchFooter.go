package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type MatchFooter struct {
	_tab flatbuffers.Table
}

func (rcv *MatchFooter) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *MatchFooter) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *MatchFooter) Winner() int8 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt8(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MatchFooter) MutateWinner(n int8) bool {
	return rcv._tab.MutateInt8Slot(4, n)
}

func (rcv *MatchFooter) TotalRounds() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MatchFooter) MutateTotalRounds(n int32) bool {
	return rcv._tab.MutateInt32Slot(6, n)
}

func (rcv *MatchFooter) ProfilerFiles(obj *ProfilerFile, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		x := rcv._tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = rcv._tab.Indirect(x)
		obj.Init(rcv._tab.Bytes, x)
		return true
	}
	return false
}

func (rcv *MatchFooter) ProfilerFilesLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func (rcv *MatchFooter) BodyCount() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return -1
}

func (rcv *MatchFooter) MutateBodyCount(n int32) bool {
	return rcv._tab.MutateInt32Slot(10, n)
}

func MatchFooterStart(builder *flatbuffers.Builder) {
	builder.StartObject(4)
}
func MatchFooterAddWinner(builder *flatbuffers.Builder, winner int8) {
	builder.PrependInt8Slot(0, winner, 0)
}
func MatchFooterAddTotalRounds(builder *flatbuffers.Builder, totalRounds int32) {
	builder.PrependInt32Slot(1, totalRounds, 0)
}
func MatchFooterAddProfilerFiles(builder *flatbuffers.Builder, profilerFiles flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(2, flatbuffers.UOffsetT(profilerFiles), 0)
}
func MatchFooterStartProfilerFilesVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(4, numElems, 4)
}
func MatchFooterAddBodyCount(builder *flatbuffers.Builder, bodyCount int32) {
	builder.PrependInt32Slot(3, bodyCount, -1)
}
func MatchFooterEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
