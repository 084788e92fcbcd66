package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type MatchHeader struct {
	_tab flatbuffers.Table
}

func (rcv *MatchHeader) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *MatchHeader) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *MatchHeader) Map(obj *GameMap) *GameMap {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(GameMap)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

func (rcv *MatchHeader) MaxRounds() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MatchHeader) MutateMaxRounds(n int32) bool {
	return rcv._tab.MutateInt32Slot(6, n)
}

func MatchHeaderStart(builder *flatbuffers.Builder) {
	builder.StartObject(2)
}
func MatchHeaderAddMap(builder *flatbuffers.Builder, map_ flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(0, flatbuffers.UOffsetT(map_), 0)
}
func MatchHeaderAddMaxRounds(builder *flatbuffers.Builder, maxRounds int32) {
	builder.PrependInt32Slot(1, maxRounds, 0)
}
func MatchHeaderEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
