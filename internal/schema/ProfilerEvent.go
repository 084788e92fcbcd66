package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type ProfilerEvent struct {
	_tab flatbuffers.Table
}

func (rcv *ProfilerEvent) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *ProfilerEvent) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *ProfilerEvent) IsOpen() bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetBool(o + rcv._tab.Pos)
	}
	return false
}

func (rcv *ProfilerEvent) MutateIsOpen(n bool) bool {
	return rcv._tab.MutateBoolSlot(4, n)
}

func (rcv *ProfilerEvent) At() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *ProfilerEvent) MutateAt(n int32) bool {
	return rcv._tab.MutateInt32Slot(6, n)
}

func (rcv *ProfilerEvent) Frame() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *ProfilerEvent) MutateFrame(n int32) bool {
	return rcv._tab.MutateInt32Slot(8, n)
}

func ProfilerEventStart(builder *flatbuffers.Builder) {
	builder.StartObject(3)
}
func ProfilerEventAddIsOpen(builder *flatbuffers.Builder, isOpen bool) {
	builder.PrependBoolSlot(0, isOpen, false)
}
func ProfilerEventAddAt(builder *flatbuffers.Builder, at int32) {
	builder.PrependInt32Slot(1, at, 0)
}
func ProfilerEventAddFrame(builder *flatbuffers.Builder, frame int32) {
	builder.PrependInt32Slot(2, frame, 0)
}
func ProfilerEventEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
