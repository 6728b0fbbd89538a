package proto

import (
	"errors"
	"fmt"

	"github.com/blockwire/blockwire/internal/wire"
)

// MetadataEnd terminates an entity metadata list.
const MetadataEnd = 0x7F

// ErrBadMetadata is returned for a metadata selector with no value type.
var ErrBadMetadata = errors.New("proto: bad metadata selector")

// MetadataType is the value type chosen by the upper three selector bits.
type MetadataType uint8

const (
	MetaByte MetadataType = iota
	MetaShort
	MetaInt
	MetaFloat
	MetaString
	MetaItem
	MetaPosition
)

// ItemStack is an item id with count and damage.
type ItemStack struct {
	ID     int16
	Count  int8
	Damage int16
}

// Position is a block position.
type Position struct {
	X, Y, Z int32
}

// MetadataEntry is one keyed value. Value holds int8, int16, int32, float32,
// wire.WideString, ItemStack or Position according to Type.
type MetadataEntry struct {
	Key   uint8
	Type  MetadataType
	Value any
}

// Metadata is a self-terminating list of entity attributes.
type Metadata []MetadataEntry

// Decode reads entries until the terminator.
func (m *Metadata) Decode(d *wire.Decoder) {
	list := Metadata{}
	for {
		sel := d.Uint8()
		if d.Err() != nil || sel == MetadataEnd {
			break
		}
		entry := MetadataEntry{Key: sel & 0x1F, Type: MetadataType(sel >> 5)}
		switch entry.Type {
		case MetaByte:
			entry.Value = d.Int8()
		case MetaShort:
			entry.Value = d.Int16()
		case MetaInt:
			entry.Value = d.Int32()
		case MetaFloat:
			entry.Value = d.Float32()
		case MetaString:
			entry.Value = d.WideString()
		case MetaItem:
			entry.Value = ItemStack{ID: d.Int16(), Count: d.Int8(), Damage: d.Int16()}
		case MetaPosition:
			entry.Value = Position{X: d.Int32(), Y: d.Int32(), Z: d.Int32()}
		default:
			d.Fail(fmt.Errorf("%w: 0x%02x", ErrBadMetadata, sel))
		}
		list = append(list, entry)
	}
	*m = list
}

// Encode writes the entries and the terminator. Entries whose value does
// not match their type are skipped.
func (m Metadata) Encode(e *wire.Encoder) {
	for _, entry := range m {
		sel := uint8(entry.Type)<<5 | entry.Key&0x1F
		switch v := entry.Value.(type) {
		case int8:
			if entry.Type != MetaByte {
				continue
			}
			e.WriteUint8(sel)
			e.WriteInt8(v)
		case int16:
			if entry.Type != MetaShort {
				continue
			}
			e.WriteUint8(sel)
			e.WriteInt16(v)
		case int32:
			if entry.Type != MetaInt {
				continue
			}
			e.WriteUint8(sel)
			e.WriteInt32(v)
		case float32:
			if entry.Type != MetaFloat {
				continue
			}
			e.WriteUint8(sel)
			e.WriteFloat32(v)
		case wire.WideString:
			if entry.Type != MetaString {
				continue
			}
			e.WriteUint8(sel)
			e.WriteWideString(v)
		case ItemStack:
			if entry.Type != MetaItem {
				continue
			}
			e.WriteUint8(sel)
			e.WriteInt16(v.ID)
			e.WriteInt8(v.Count)
			e.WriteInt16(v.Damage)
		case Position:
			if entry.Type != MetaPosition {
				continue
			}
			e.WriteUint8(sel)
			e.WriteInt32(v.X)
			e.WriteInt32(v.Y)
			e.WriteInt32(v.Z)
		}
	}
	e.WriteUint8(MetadataEnd)
}
