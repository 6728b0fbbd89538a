package proto

import "github.com/blockwire/blockwire/internal/wire"

// KeepAlive has no body. A client answers each one with its own.
type KeepAlive struct{}

func (*KeepAlive) Tag() Tag { return TagKeepAlive }
func (*KeepAlive) Decode(*wire.Decoder) {}
func (*KeepAlive) Encode(*wire.Encoder) {}

// Login is sent by the client with its protocol version and answered by the
// server with the player's entity id. Both directions share the layout.
type Login struct {
	ID        int32 // protocol version out, entity id in
	Username  wire.WideString
	MapSeed   int64
	Dimension int8
}

func (*Login) Tag() Tag { return TagLogin }

func (f *Login) Decode(d *wire.Decoder) {
	f.ID = d.Int32()
	f.Username = d.WideString()
	f.MapSeed = d.Int64()
	f.Dimension = d.Int8()
}

func (f *Login) Encode(e *wire.Encoder) {
	e.WriteInt32(f.ID)
	e.WriteWideString(f.Username)
	e.WriteInt64(f.MapSeed)
	e.WriteInt8(f.Dimension)
}

// Handshake carries the username from the client and the connection hash
// ("-" for offline servers) from the server.
type Handshake struct {
	Value wire.WideString
}

func (*Handshake) Tag() Tag { return TagHandshake }
func (f *Handshake) Decode(d *wire.Decoder) { f.Value = d.WideString() }
func (f *Handshake) Encode(e *wire.Encoder) { e.WriteWideString(f.Value) }

// Chat is a chat line in either direction.
type Chat struct {
	Message wire.WideString
}

func (*Chat) Tag() Tag { return TagChat }
func (f *Chat) Decode(d *wire.Decoder) { f.Message = d.WideString() }
func (f *Chat) Encode(e *wire.Encoder) { e.WriteWideString(f.Message) }

// TimeUpdate carries the world time in ticks.
type TimeUpdate struct {
	Time int64
}

func (*TimeUpdate) Tag() Tag { return TagTimeUpdate }
func (f *TimeUpdate) Decode(d *wire.Decoder) { f.Time = d.Int64() }
func (f *TimeUpdate) Encode(e *wire.Encoder) { e.WriteInt64(f.Time) }

// SpawnPosition is the world spawn point the compass points to.
type SpawnPosition struct {
	X, Y, Z int32
}

func (*SpawnPosition) Tag() Tag { return TagSpawnPosition }

func (f *SpawnPosition) Decode(d *wire.Decoder) {
	f.X = d.Int32()
	f.Y = d.Int32()
	f.Z = d.Int32()
}

func (f *SpawnPosition) Encode(e *wire.Encoder) {
	e.WriteInt32(f.X)
	e.WriteInt32(f.Y)
	e.WriteInt32(f.Z)
}

// UpdateHealth carries the player's health, 0 through 20.
type UpdateHealth struct {
	Health int16
}

func (*UpdateHealth) Tag() Tag { return TagUpdateHealth }
func (f *UpdateHealth) Decode(d *wire.Decoder) { f.Health = d.Int16() }
func (f *UpdateHealth) Encode(e *wire.Encoder) { e.WriteInt16(f.Health) }

// Respawn asks the server to respawn the player, and confirms it.
type Respawn struct {
	Dimension int8
}

func (*Respawn) Tag() Tag { return TagRespawn }
func (f *Respawn) Decode(d *wire.Decoder) { f.Dimension = d.Int8() }
func (f *Respawn) Encode(e *wire.Encoder) { e.WriteInt8(f.Dimension) }

// NewState reports a game state change: 0 invalid bed, 1 rain starts,
// 2 rain stops.
type NewState struct {
	Reason int8
}

func (*NewState) Tag() Tag { return TagNewState }
func (f *NewState) Decode(d *wire.Decoder) { f.Reason = d.Int8() }
func (f *NewState) Encode(e *wire.Encoder) { e.WriteInt8(f.Reason) }

// IncrementStatistic bumps a player statistic by Amount.
type IncrementStatistic struct {
	Statistic int32
	Amount    int8
}

func (*IncrementStatistic) Tag() Tag { return TagIncrementStatistic }

func (f *IncrementStatistic) Decode(d *wire.Decoder) {
	f.Statistic = d.Int32()
	f.Amount = d.Int8()
}

func (f *IncrementStatistic) Encode(e *wire.Encoder) {
	e.WriteInt32(f.Statistic)
	e.WriteInt8(f.Amount)
}

// Kick ends the session. The server sends it with a reason; the client
// sends it as its last frame when it disconnects.
type Kick struct {
	Reason wire.WideString
}

func (*Kick) Tag() Tag { return TagKick }
func (f *Kick) Decode(d *wire.Decoder) { f.Reason = d.WideString() }
func (f *Kick) Encode(e *wire.Encoder) { e.WriteWideString(f.Reason) }
