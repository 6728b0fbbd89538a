package proto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/blockwire/blockwire/internal/wire"
)

// PreChunk tells the client to allocate (Load true) or free a chunk column.
type PreChunk struct {
	X, Z int32
	Load bool
}

func (*PreChunk) Tag() Tag { return TagPreChunk }

func (f *PreChunk) Decode(d *wire.Decoder) {
	f.X = d.Int32()
	f.Z = d.Int32()
	f.Load = d.Bool()
}

func (f *PreChunk) Encode(e *wire.Encoder) {
	e.WriteInt32(f.X)
	e.WriteInt32(f.Z)
	e.WriteBool(f.Load)
}

// MapChunk carries a zlib-compressed region of blocks. The size fields are
// one less than the region's extent on each axis.
type MapChunk struct {
	X          int32
	Y          int16
	Z          int32
	SX, SY, SZ int8
	Data       []byte
}

func (*MapChunk) Tag() Tag { return TagMapChunk }

func (f *MapChunk) Decode(d *wire.Decoder) {
	f.X = d.Int32()
	f.Y = d.Int16()
	f.Z = d.Int32()
	f.SX = d.Int8()
	f.SY = d.Int8()
	f.SZ = d.Int8()
	f.Data = d.Bytes(int(d.Int32()))
}

func (f *MapChunk) Encode(e *wire.Encoder) {
	e.WriteInt32(f.X)
	e.WriteInt16(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.SX)
	e.WriteInt8(f.SY)
	e.WriteInt8(f.SZ)
	e.WriteInt32(int32(len(f.Data)))
	e.WriteBytes(f.Data)
}

// ExpectedSize is the inflated size of the region: a block id byte plus
// three nibbles (metadata, block light, sky light) per block.
func (f *MapChunk) ExpectedSize() int {
	blocks := (int(uint8(f.SX)) + 1) * (int(uint8(f.SY)) + 1) * (int(uint8(f.SZ)) + 1)
	return blocks * 5 / 2
}

// Inflate decompresses Data. It fails if the stream is corrupt or does not
// inflate to ExpectedSize.
func (f *MapChunk) Inflate() ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("map chunk: %w", err)
	}
	defer func() { _ = zr.Close() }()

	want := f.ExpectedSize()
	out := make([]byte, want)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("map chunk: inflating %d bytes: %w", want, err)
	}
	return out, nil
}

// MultiBlockChange updates several blocks inside one chunk column. Each
// coordinate packs x<<12 | z<<8 | y.
type MultiBlockChange struct {
	ChunkX, ChunkZ int32
	Coords         []int16
	Types          []int8
	Metadata       []int8
}

func (*MultiBlockChange) Tag() Tag { return TagMultiBlockChange }

func (f *MultiBlockChange) Decode(d *wire.Decoder) {
	f.ChunkX = d.Int32()
	f.ChunkZ = d.Int32()
	n := d.Length()
	raw := d.Bytes(2 * n)
	types := d.Bytes(n)
	meta := d.Bytes(n)
	if d.Err() != nil {
		return
	}
	f.Coords = make([]int16, n)
	f.Types = make([]int8, n)
	f.Metadata = make([]int8, n)
	for i := 0; i < n; i++ {
		f.Coords[i] = int16(binary.BigEndian.Uint16(raw[2*i:]))
		f.Types[i] = int8(types[i])
		f.Metadata[i] = int8(meta[i])
	}
}

func (f *MultiBlockChange) Encode(e *wire.Encoder) {
	e.WriteInt32(f.ChunkX)
	e.WriteInt32(f.ChunkZ)
	n := min(len(f.Coords), len(f.Types), len(f.Metadata))
	e.WriteInt16(int16(n))
	for _, c := range f.Coords[:n] {
		e.WriteInt16(c)
	}
	for _, t := range f.Types[:n] {
		e.WriteInt8(t)
	}
	for _, m := range f.Metadata[:n] {
		e.WriteInt8(m)
	}
}

// BlockChange replaces a single block.
type BlockChange struct {
	X        int32
	Y        int8
	Z        int32
	Type     int8
	Metadata int8
}

func (*BlockChange) Tag() Tag { return TagBlockChange }

func (f *BlockChange) Decode(d *wire.Decoder) {
	f.X = d.Int32()
	f.Y = d.Int8()
	f.Z = d.Int32()
	f.Type = d.Int8()
	f.Metadata = d.Int8()
}

func (f *BlockChange) Encode(e *wire.Encoder) {
	e.WriteInt32(f.X)
	e.WriteInt8(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.Type)
	e.WriteInt8(f.Metadata)
}

// BlockAction drives note blocks and pistons.
type BlockAction struct {
	X    int32
	Y    int16
	Z    int32
	A, B int8
}

func (*BlockAction) Tag() Tag { return TagBlockAction }

func (f *BlockAction) Decode(d *wire.Decoder) {
	f.X = d.Int32()
	f.Y = d.Int16()
	f.Z = d.Int32()
	f.A = d.Int8()
	f.B = d.Int8()
}

func (f *BlockAction) Encode(e *wire.Encoder) {
	e.WriteInt32(f.X)
	e.WriteInt16(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt8(f.A)
	e.WriteInt8(f.B)
}

// Offset is a block offset relative to an explosion's centre.
type Offset struct {
	DX, DY, DZ int8
}

// Explosion removes the blocks at Records around its centre.
type Explosion struct {
	X, Y, Z float64
	Radius  float32
	Records []Offset
}

func (*Explosion) Tag() Tag { return TagExplosion }

func (f *Explosion) Decode(d *wire.Decoder) {
	f.X = d.Float64()
	f.Y = d.Float64()
	f.Z = d.Float64()
	f.Radius = d.Float32()
	n := int(d.Int32())
	raw := d.Bytes(3 * n)
	if d.Err() != nil {
		return
	}
	f.Records = make([]Offset, n)
	for i := range f.Records {
		f.Records[i] = Offset{int8(raw[3*i]), int8(raw[3*i+1]), int8(raw[3*i+2])}
	}
}

func (f *Explosion) Encode(e *wire.Encoder) {
	e.WriteFloat64(f.X)
	e.WriteFloat64(f.Y)
	e.WriteFloat64(f.Z)
	e.WriteFloat32(f.Radius)
	e.WriteInt32(int32(len(f.Records)))
	for _, r := range f.Records {
		e.WriteInt8(r.DX)
		e.WriteInt8(r.DY)
		e.WriteInt8(r.DZ)
	}
}

// SoundEffect plays a sound or particle effect at a block.
type SoundEffect struct {
	Effect int32
	X      int32
	Y      int8
	Z      int32
	Data   int32
}

func (*SoundEffect) Tag() Tag { return TagSoundEffect }

func (f *SoundEffect) Decode(d *wire.Decoder) {
	f.Effect = d.Int32()
	f.X = d.Int32()
	f.Y = d.Int8()
	f.Z = d.Int32()
	f.Data = d.Int32()
}

func (f *SoundEffect) Encode(e *wire.Encoder) {
	e.WriteInt32(f.Effect)
	e.WriteInt32(f.X)
	e.WriteInt8(f.Y)
	e.WriteInt32(f.Z)
	e.WriteInt32(f.Data)
}

// UpdateSign sets the four lines of a sign.
type UpdateSign struct {
	X     int32
	Y     int16
	Z     int32
	Lines [4]wire.WideString
}

func (*UpdateSign) Tag() Tag { return TagUpdateSign }

func (f *UpdateSign) Decode(d *wire.Decoder) {
	f.X = d.Int32()
	f.Y = d.Int16()
	f.Z = d.Int32()
	for i := range f.Lines {
		f.Lines[i] = d.WideString()
	}
}

func (f *UpdateSign) Encode(e *wire.Encoder) {
	e.WriteInt32(f.X)
	e.WriteInt16(f.Y)
	e.WriteInt32(f.Z)
	for _, l := range f.Lines {
		e.WriteWideString(l)
	}
}

// MapData carries map item pixels. Its length prefix is a single unsigned
// byte.
type MapData struct {
	ItemType int16
	ItemID   int16
	Data     []byte
}

func (*MapData) Tag() Tag { return TagMapData }

func (f *MapData) Decode(d *wire.Decoder) {
	f.ItemType = d.Int16()
	f.ItemID = d.Int16()
	f.Data = d.Bytes(int(d.Uint8()))
}

func (f *MapData) Encode(e *wire.Encoder) {
	data := f.Data
	if len(data) > 0xFF {
		data = data[:0xFF]
	}
	e.WriteInt16(f.ItemType)
	e.WriteInt16(f.ItemID)
	e.WriteUint8(uint8(len(data)))
	e.WriteBytes(data)
}
