package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type TeamData struct {
	_tab flatbuffers.Table
}

func (rcv *TeamData) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *TeamData) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *TeamData) Name() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *TeamData) PackageName() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *TeamData) TeamID() int8 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetInt8(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *TeamData) MutateTeamID(n int8) bool {
	return rcv._tab.MutateInt8Slot(8, n)
}

func TeamDataStart(builder *flatbuffers.Builder) {
	builder.StartObject(3)
}
func TeamDataAddName(builder *flatbuffers.Builder, name flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(0, flatbuffers.UOffsetT(name), 0)
}
func TeamDataAddPackageName(builder *flatbuffers.Builder, packageName flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, flatbuffers.UOffsetT(packageName), 0)
}
func TeamDataAddTeamID(builder *flatbuffers.Builder, teamID int8) {
	builder.PrependInt8Slot(2, teamID, 0)
}
func TeamDataEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
