package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Wraps one Event union value.
type EventWrapper struct {
	_tab flatbuffers.Table
}

func GetRootAsEventWrapper(buf []byte, offset flatbuffers.UOffsetT) *EventWrapper {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &EventWrapper{}
	x.Init(buf, n+offset)
	return x
}

func FinishEventWrapperBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.Finish(offset)
}

func GetSizePrefixedRootAsEventWrapper(buf []byte, offset flatbuffers.UOffsetT) *EventWrapper {
	n := flatbuffers.GetUOffsetT(buf[offset+flatbuffers.SizeUint32:])
	x := &EventWrapper{}
	x.Init(buf, n+offset+flatbuffers.SizeUint32)
	return x
}

func FinishSizePrefixedEventWrapperBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.FinishSizePrefixed(offset)
}

func (rcv *EventWrapper) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *EventWrapper) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *EventWrapper) EType() Event {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return Event(rcv._tab.GetByte(o + rcv._tab.Pos))
	}
	return 0
}

func (rcv *EventWrapper) MutateEType(n Event) bool {
	return rcv._tab.MutateByteSlot(4, byte(n))
}

func (rcv *EventWrapper) E(obj *flatbuffers.Table) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		rcv._tab.Union(obj, o)
		return true
	}
	return false
}

func EventWrapperStart(builder *flatbuffers.Builder) {
	builder.StartObject(2)
}
func EventWrapperAddEType(builder *flatbuffers.Builder, eType Event) {
	builder.PrependByteSlot(0, byte(eType), 0)
}
func EventWrapperAddE(builder *flatbuffers.Builder, e flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, flatbuffers.UOffsetT(e), 0)
}
func EventWrapperEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
