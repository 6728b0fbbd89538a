package proto

import "github.com/blockwire/blockwire/internal/wire"

// Player reports only whether the player stands on the ground.
type Player struct {
	OnGround bool
}

func (*Player) Tag() Tag { return TagPlayer }
func (f *Player) Decode(d *wire.Decoder) { f.OnGround = d.Bool() }
func (f *Player) Encode(e *wire.Encoder) { e.WriteBool(f.OnGround) }

// PlayerPosition moves the player without turning.
type PlayerPosition struct {
	X, Y, Stance, Z float64
	OnGround        bool
}

func (*PlayerPosition) Tag() Tag { return TagPlayerPosition }

func (f *PlayerPosition) Decode(d *wire.Decoder) {
	f.X = d.Float64()
	f.Y = d.Float64()
	f.Stance = d.Float64()
	f.Z = d.Float64()
	f.OnGround = d.Bool()
}

func (f *PlayerPosition) Encode(e *wire.Encoder) {
	e.WriteFloat64(f.X)
	e.WriteFloat64(f.Y)
	e.WriteFloat64(f.Stance)
	e.WriteFloat64(f.Z)
	e.WriteBool(f.OnGround)
}

// PlayerLook turns the player without moving.
type PlayerLook struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (*PlayerLook) Tag() Tag { return TagPlayerLook }

func (f *PlayerLook) Decode(d *wire.Decoder) {
	f.Yaw = d.Float32()
	f.Pitch = d.Float32()
	f.OnGround = d.Bool()
}

func (f *PlayerLook) Encode(e *wire.Encoder) {
	e.WriteFloat32(f.Yaw)
	e.WriteFloat32(f.Pitch)
	e.WriteBool(f.OnGround)
}

// PlayerPositionLook is asymmetric on the wire: the server sends stance
// before y, the client sends y before stance. Decode reads the server
// order and Encode writes the client order.
type PlayerPositionLook struct {
	X, Y, Stance, Z float64
	Yaw, Pitch      float32
	OnGround        bool
}

func (*PlayerPositionLook) Tag() Tag { return TagPlayerPositionLook }

func (f *PlayerPositionLook) Decode(d *wire.Decoder) {
	f.X = d.Float64()
	f.Stance = d.Float64()
	f.Y = d.Float64()
	f.Z = d.Float64()
	f.Yaw = d.Float32()
	f.Pitch = d.Float32()
	f.OnGround = d.Bool()
}

func (f *PlayerPositionLook) Encode(e *wire.Encoder) {
	e.WriteFloat64(f.X)
	e.WriteFloat64(f.Y)
	e.WriteFloat64(f.Stance)
	e.WriteFloat64(f.Z)
	e.WriteFloat32(f.Yaw)
	e.WriteFloat32(f.Pitch)
	e.WriteBool(f.OnGround)
}

// Dig statuses.
const (
	DigStarted  int8 = 0
	DigFinished int8 = 2
	DigDropItem int8 = 4
)

// BlockDig reports digging progress, or drops the held item with
// DigDropItem.
type BlockDig struct {
	Status int8
	X      int32
	Y      int8
	Z      int32
	Face   int8
}

func (*BlockDig) Tag() Tag { return TagBlockDig }

func (f *BlockDig) Decode(d *wire.Decoder) {
	f.Status = d.Int8()
	f.X = d.Int32()
	f.Y = d.Int8()
	f.Z = d.Int32()
	f.Face = d.Int8()
}

func (f *BlockDig) Encode(e *wire.Encoder) {
	e.WriteInt8(f.Status)
	e.WriteInt32(f.X)
	e.WriteInt8(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.Face)
}

// BlockPlace carries an item stack only when Item is not negative.
type BlockPlace struct {
	X         int32
	Y         int8
	Z         int32
	Direction int8
	Item      int16
	Count     int8
	Damage    int16
}

func (*BlockPlace) Tag() Tag { return TagBlockPlace }

func (f *BlockPlace) Decode(d *wire.Decoder) {
	f.X = d.Int32()
	f.Y = d.Int8()
	f.Z = d.Int32()
	f.Direction = d.Int8()
	f.Item = d.Int16()
	if f.Item >= 0 {
		f.Count = d.Int8()
		f.Damage = d.Int16()
	}
}

func (f *BlockPlace) Encode(e *wire.Encoder) {
	e.WriteInt32(f.X)
	e.WriteInt8(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.Direction)
	e.WriteInt16(f.Item)
	if f.Item >= 0 {
		e.WriteInt8(f.Count)
		e.WriteInt16(f.Damage)
	}
}

// HoldingChange selects a hotbar slot, 0 through 8.
type HoldingChange struct {
	Slot int16
}

func (*HoldingChange) Tag() Tag { return TagHoldingChange }
func (f *HoldingChange) Decode(d *wire.Decoder) { f.Slot = d.Int16() }
func (f *HoldingChange) Encode(e *wire.Encoder) { e.WriteInt16(f.Slot) }

// UseEntity attacks (LeftClick) or uses Target.
type UseEntity struct {
	User, Target int32
	LeftClick    bool
}

func (*UseEntity) Tag() Tag { return TagUseEntity }

func (f *UseEntity) Decode(d *wire.Decoder) {
	f.User = d.Int32()
	f.Target = d.Int32()
	f.LeftClick = d.Bool()
}

func (f *UseEntity) Encode(e *wire.Encoder) {
	e.WriteInt32(f.User)
	e.WriteInt32(f.Target)
	e.WriteBool(f.LeftClick)
}

// UseBed puts a player in the bed at X, Y, Z.
type UseBed struct {
	EntityID int32
	InBed    int8
	X        int32
	Y        int8
	Z        int32
}

func (*UseBed) Tag() Tag { return TagUseBed }

func (f *UseBed) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.InBed = d.Int8()
	f.X = d.Int32()
	f.Y = d.Int8()
	f.Z = d.Int32()
}

func (f *UseBed) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.InBed)
	e.WriteInt32(f.X)
	e.WriteInt8(f.Y)
	e.WriteInt32(f.Z)
}

// Animation plays an arm swing or similar animation.
type Animation struct {
	EntityID  int32
	Animation int8
}

func (*Animation) Tag() Tag { return TagAnimation }

func (f *Animation) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Animation = d.Int8()
}

func (f *Animation) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.Animation)
}

// EntityAction reports crouching and leaving a bed.
type EntityAction struct {
	EntityID int32
	Action   int8
}

func (*EntityAction) Tag() Tag { return TagEntityAction }

func (f *EntityAction) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Action = d.Int8()
}

func (f *EntityAction) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.Action)
}

// StanceUpdate is assigned but unused by Beta servers.
type StanceUpdate struct {
	A, B, C, D float32
	E, F       bool
}

func (*StanceUpdate) Tag() Tag { return TagStanceUpdate }

func (f *StanceUpdate) Decode(d *wire.Decoder) {
	f.A = d.Float32()
	f.B = d.Float32()
	f.C = d.Float32()
	f.D = d.Float32()
	f.E = d.Bool()
	f.F = d.Bool()
}

func (f *StanceUpdate) Encode(e *wire.Encoder) {
	e.WriteFloat32(f.A)
	e.WriteFloat32(f.B)
	e.WriteFloat32(f.C)
	e.WriteFloat32(f.D)
	e.WriteBool(f.E)
	e.WriteBool(f.F)
}
