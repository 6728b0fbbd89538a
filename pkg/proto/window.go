package proto

import "github.com/blockwire/blockwire/internal/wire"

// EmptySlot is the item id of an empty inventory slot.
const EmptySlot int16 = -1

// Empty reports whether the stack occupies no slot.
func (s ItemStack) Empty() bool { return s.ID == EmptySlot }

// decodeSlot reads an item id followed, for non-empty slots, by count and
// damage.
func decodeSlot(d *wire.Decoder) ItemStack {
	s := ItemStack{ID: d.Int16()}
	if s.ID != EmptySlot {
		s.Count = d.Int8()
		s.Damage = d.Int16()
	}
	return s
}

func encodeSlot(e *wire.Encoder, s ItemStack) {
	e.WriteInt16(s.ID)
	if s.ID != EmptySlot {
		e.WriteInt8(s.Count)
		e.WriteInt16(s.Damage)
	}
}

// OpenWindow opens an inventory window such as a chest.
type OpenWindow struct {
	Window int8
	Type   int8
	Title  string
	Slots  int8
}

func (*OpenWindow) Tag() Tag { return TagOpenWindow }

func (f *OpenWindow) Decode(d *wire.Decoder) {
	f.Window = d.Int8()
	f.Type = d.Int8()
	f.Title = d.ShortString()
	f.Slots = d.Int8()
}

func (f *OpenWindow) Encode(e *wire.Encoder) {
	e.WriteInt8(f.Window)
	e.WriteInt8(f.Type)
	e.WriteShortString(f.Title)
	e.WriteInt8(f.Slots)
}

// CloseWindow closes a window in either direction.
type CloseWindow struct {
	Window int8
}

func (*CloseWindow) Tag() Tag { return TagCloseWindow }
func (f *CloseWindow) Decode(d *wire.Decoder) { f.Window = d.Int8() }
func (f *CloseWindow) Encode(e *wire.Encoder) { e.WriteInt8(f.Window) }

// WindowClick is a click on a window slot. Action numbers the click for its
// Transaction reply.
type WindowClick struct {
	Window     int8
	Slot       int16
	RightClick int8
	Action     int16
	Shift      bool
	Item       ItemStack
}

func (*WindowClick) Tag() Tag { return TagWindowClick }

func (f *WindowClick) Decode(d *wire.Decoder) {
	f.Window = d.Int8()
	f.Slot = d.Int16()
	f.RightClick = d.Int8()
	f.Action = d.Int16()
	f.Shift = d.Bool()
	f.Item = decodeSlot(d)
}

func (f *WindowClick) Encode(e *wire.Encoder) {
	e.WriteInt8(f.Window)
	e.WriteInt16(f.Slot)
	e.WriteInt8(f.RightClick)
	e.WriteInt16(f.Action)
	e.WriteBool(f.Shift)
	encodeSlot(e, f.Item)
}

// SetSlot updates one slot. Window -1 with slot -1 sets the cursor item.
type SetSlot struct {
	Window int8
	Slot   int16
	Item   ItemStack
}

func (*SetSlot) Tag() Tag { return TagSetSlot }

func (f *SetSlot) Decode(d *wire.Decoder) {
	f.Window = d.Int8()
	f.Slot = d.Int16()
	f.Item = decodeSlot(d)
}

func (f *SetSlot) Encode(e *wire.Encoder) {
	e.WriteInt8(f.Window)
	e.WriteInt16(f.Slot)
	encodeSlot(e, f.Item)
}

// WindowItems replaces the whole contents of a window.
type WindowItems struct {
	Window int8
	Items  []ItemStack
}

func (*WindowItems) Tag() Tag { return TagWindowItems }

func (f *WindowItems) Decode(d *wire.Decoder) {
	f.Window = d.Int8()
	n := d.Length()
	f.Items = make([]ItemStack, 0, min(n, 64))
	for i := 0; i < n && d.Err() == nil; i++ {
		f.Items = append(f.Items, decodeSlot(d))
	}
}

func (f *WindowItems) Encode(e *wire.Encoder) {
	e.WriteInt8(f.Window)
	e.WriteInt16(int16(len(f.Items)))
	for _, it := range f.Items {
		encodeSlot(e, it)
	}
}

// UpdateProgressBar drives furnace arrows and fuel bars.
type UpdateProgressBar struct {
	Window int8
	Bar    int16
	Value  int16
}

func (*UpdateProgressBar) Tag() Tag { return TagUpdateProgressBar }

func (f *UpdateProgressBar) Decode(d *wire.Decoder) {
	f.Window = d.Int8()
	f.Bar = d.Int16()
	f.Value = d.Int16()
}

func (f *UpdateProgressBar) Encode(e *wire.Encoder) {
	e.WriteInt8(f.Window)
	e.WriteInt16(f.Bar)
	e.WriteInt16(f.Value)
}

// Transaction accepts or rejects a numbered WindowClick.
type Transaction struct {
	Window   int8
	Action   int16
	Accepted bool
}

func (*Transaction) Tag() Tag { return TagTransaction }

func (f *Transaction) Decode(d *wire.Decoder) {
	f.Window = d.Int8()
	f.Action = d.Int16()
	f.Accepted = d.Bool()
}

func (f *Transaction) Encode(e *wire.Encoder) {
	e.WriteInt8(f.Window)
	e.WriteInt16(f.Action)
	e.WriteBool(f.Accepted)
}
