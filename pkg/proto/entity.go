package proto

import "github.com/blockwire/blockwire/internal/wire"

// EntityEquipment shows what an entity holds or wears in one slot.
type EntityEquipment struct {
	EntityID int32
	Slot     int16
	Item     int16
	Damage   int16
}

func (*EntityEquipment) Tag() Tag { return TagEntityEquipment }

func (f *EntityEquipment) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Slot = d.Int16()
	f.Item = d.Int16()
	f.Damage = d.Int16()
}

func (f *EntityEquipment) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt16(f.Slot)
	e.WriteInt16(f.Item)
	e.WriteInt16(f.Damage)
}

// NamedEntitySpawn introduces another player. Coordinates are absolute
// integers in 1/32 block units.
type NamedEntitySpawn struct {
	EntityID    int32
	Name        wire.WideString
	X, Y, Z     int32
	Yaw, Pitch  int8
	CurrentItem int16
}

func (*NamedEntitySpawn) Tag() Tag { return TagNamedEntitySpawn }

func (f *NamedEntitySpawn) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Name = d.WideString()
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
	f.Yaw = d.Int8()
	f.Pitch = d.Int8()
	f.CurrentItem = d.Int16()
}

func (f *NamedEntitySpawn) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteWideString(f.Name)
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.Yaw)
	e.WriteInt8(f.Pitch)
	e.WriteInt16(f.CurrentItem)
}

// PickupSpawn drops an item entity into the world.
type PickupSpawn struct {
	EntityID         int32
	Item             int16
	Count            int8
	Damage           int16
	X, Y, Z          int32
	Yaw, Pitch, Roll int8
}

func (*PickupSpawn) Tag() Tag { return TagPickupSpawn }

func (f *PickupSpawn) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Item = d.Int16()
	f.Count = d.Int8()
	f.Damage = d.Int16()
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
	f.Yaw = d.Int8()
	f.Pitch = d.Int8()
	f.Roll = d.Int8()
}

func (f *PickupSpawn) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt16(f.Item)
	e.WriteInt8(f.Count)
	e.WriteInt16(f.Damage)
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.Yaw)
	e.WriteInt8(f.Pitch)
	e.WriteInt8(f.Roll)
}

// CollectItem animates Collector picking up Collected.
type CollectItem struct {
	Collected, Collector int32
}

func (*CollectItem) Tag() Tag { return TagCollectItem }

func (f *CollectItem) Decode(d *wire.Decoder) {
	f.Collected = d.Int32()
	f.Collector = d.Int32()
}

func (f *CollectItem) Encode(e *wire.Encoder) {
	e.WriteInt32(f.Collected)
	e.WriteInt32(f.Collector)
}

// AddObject spawns a vehicle or projectile. The velocity is present only
// when Owner is positive.
type AddObject struct {
	EntityID   int32
	Type       int8
	X, Y, Z    int32
	Owner      int32
	VX, VY, VZ int16
}

func (*AddObject) Tag() Tag { return TagAddObject }

func (f *AddObject) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Type = d.Int8()
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
	f.Owner = d.Int32()
	if f.Owner > 0 {
		f.VX = d.Int16()
		f.VY = d.Int16()
		f.VZ = d.Int16()
	}
}

func (f *AddObject) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.Type)
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt32(f.Owner)
	if f.Owner > 0 {
		e.WriteInt16(f.VX)
		e.WriteInt16(f.VY)
		e.WriteInt16(f.VZ)
	}
}

// MobSpawn introduces a mob with its initial metadata.
type MobSpawn struct {
	EntityID   int32
	Type       int8
	X, Y, Z    int32
	Yaw, Pitch int8
	Metadata   Metadata
}

func (*MobSpawn) Tag() Tag { return TagMobSpawn }

func (f *MobSpawn) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Type = d.Int8()
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
	f.Yaw = d.Int8()
	f.Pitch = d.Int8()
	f.Metadata.Decode(d)
}

func (f *MobSpawn) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.Type)
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.Yaw)
	e.WriteInt8(f.Pitch)
	f.Metadata.Encode(e)
}

// EntityPainting places a painting by title on a wall.
type EntityPainting struct {
	EntityID  int32
	Title     wire.WideString
	X, Y, Z   int32
	Direction int32
}

func (*EntityPainting) Tag() Tag { return TagEntityPainting }

func (f *EntityPainting) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Title = d.WideString()
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
	f.Direction = d.Int32()
}

func (f *EntityPainting) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteWideString(f.Title)
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt32(f.Direction)
}

// EntityVelocity sets an entity's velocity in 1/8000 block per tick.
type EntityVelocity struct {
	EntityID   int32
	VX, VY, VZ int16
}

func (*EntityVelocity) Tag() Tag { return TagEntityVelocity }

func (f *EntityVelocity) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.VX = d.Int16()
	f.VY = d.Int16()
	f.VZ = d.Int16()
}

func (f *EntityVelocity) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt16(f.VX)
	e.WriteInt16(f.VY)
	e.WriteInt16(f.VZ)
}

// DestroyEntity removes an entity from the client's view.
type DestroyEntity struct {
	EntityID int32
}

func (*DestroyEntity) Tag() Tag { return TagDestroyEntity }
func (f *DestroyEntity) Decode(d *wire.Decoder) { f.EntityID = d.Int32() }
func (f *DestroyEntity) Encode(e *wire.Encoder) { e.WriteInt32(f.EntityID) }

// Entity tells the client an entity exists without moving it.
type Entity struct {
	EntityID int32
}

func (*Entity) Tag() Tag { return TagEntity }
func (f *Entity) Decode(d *wire.Decoder) { f.EntityID = d.Int32() }
func (f *Entity) Encode(e *wire.Encoder) { e.WriteInt32(f.EntityID) }

// EntityMove is a relative move in 1/32 block units.
type EntityMove struct {
	EntityID   int32
	DX, DY, DZ int8
}

func (*EntityMove) Tag() Tag { return TagEntityMove }

func (f *EntityMove) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.DX = d.Int8()
	f.DY = d.Int8()
	f.DZ = d.Int8()
}

func (f *EntityMove) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.DX)
	e.WriteInt8(f.DY)
	e.WriteInt8(f.DZ)
}

// EntityLook turns an entity without moving it.
type EntityLook struct {
	EntityID   int32
	Yaw, Pitch int8
}

func (*EntityLook) Tag() Tag { return TagEntityLook }

func (f *EntityLook) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Yaw = d.Int8()
	f.Pitch = d.Int8()
}

func (f *EntityLook) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.Yaw)
	e.WriteInt8(f.Pitch)
}

// EntityMoveLook combines EntityMove and EntityLook.
type EntityMoveLook struct {
	EntityID   int32
	DX, DY, DZ int8
	Yaw, Pitch int8
}

func (*EntityMoveLook) Tag() Tag { return TagEntityMoveLook }

func (f *EntityMoveLook) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.DX = d.Int8()
	f.DY = d.Int8()
	f.DZ = d.Int8()
	f.Yaw = d.Int8()
	f.Pitch = d.Int8()
}

func (f *EntityMoveLook) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.DX)
	e.WriteInt8(f.DY)
	e.WriteInt8(f.DZ)
	e.WriteInt8(f.Yaw)
	e.WriteInt8(f.Pitch)
}

// EntityTeleport moves an entity to absolute 1/32 block coordinates.
type EntityTeleport struct {
	EntityID   int32
	X, Y, Z    int32
	Yaw, Pitch int8
}

func (*EntityTeleport) Tag() Tag { return TagEntityTeleport }

func (f *EntityTeleport) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
	f.Yaw = d.Int8()
	f.Pitch = d.Int8()
}

func (f *EntityTeleport) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.Yaw)
	e.WriteInt8(f.Pitch)
}

// EntityStatus signals hurt, death and similar entity events.
type EntityStatus struct {
	EntityID int32
	Status   int8
}

func (*EntityStatus) Tag() Tag { return TagEntityStatus }

func (f *EntityStatus) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Status = d.Int8()
}

func (f *EntityStatus) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt8(f.Status)
}

// AttachEntity mounts EntityID on Vehicle; a Vehicle of -1 dismounts.
type AttachEntity struct {
	EntityID, Vehicle int32
}

func (*AttachEntity) Tag() Tag { return TagAttachEntity }

func (f *AttachEntity) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Vehicle = d.Int32()
}

func (f *AttachEntity) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteInt32(f.Vehicle)
}

// EntityMetadata updates an entity's attributes.
type EntityMetadata struct {
	EntityID int32
	Metadata Metadata
}

func (*EntityMetadata) Tag() Tag { return TagEntityMetadata }

func (f *EntityMetadata) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Metadata.Decode(d)
}

func (f *EntityMetadata) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	f.Metadata.Encode(e)
}

// Thunderbolt strikes lightning at a position.
type Thunderbolt struct {
	EntityID int32
	Unknown  bool
	X, Y, Z  int32
}

func (*Thunderbolt) Tag() Tag { return TagThunderbolt }

func (f *Thunderbolt) Decode(d *wire.Decoder) {
	f.EntityID = d.Int32()
	f.Unknown = d.Bool()
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
}

func (f *Thunderbolt) Encode(e *wire.Encoder) {
	e.WriteInt32(f.EntityID)
	e.WriteBool(f.Unknown)
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
}
