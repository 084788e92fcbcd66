package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type GameFooter struct {
	_tab flatbuffers.Table
}

func (rcv *GameFooter) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *GameFooter) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *GameFooter) Winner() int8 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt8(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *GameFooter) MutateWinner(n int8) bool {
	return rcv._tab.MutateInt8Slot(4, n)
}

func GameFooterStart(builder *flatbuffers.Builder) {
	builder.StartObject(1)
}
func GameFooterAddWinner(builder *flatbuffers.Builder, winner int8) {
	builder.PrependInt8Slot(0, winner, 0)
}
func GameFooterEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
