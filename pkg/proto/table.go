package proto

import (
	"fmt"

	"github.com/blockwire/blockwire/internal/wire"
)

// Frame tags.
const (
	TagKeepAlive          Tag = 0x00
	TagLogin              Tag = 0x01
	TagHandshake          Tag = 0x02
	TagChat               Tag = 0x03
	TagTimeUpdate         Tag = 0x04
	TagEntityEquipment    Tag = 0x05
	TagSpawnPosition      Tag = 0x06
	TagUseEntity          Tag = 0x07
	TagUpdateHealth       Tag = 0x08
	TagRespawn            Tag = 0x09
	TagPlayer             Tag = 0x0A
	TagPlayerPosition     Tag = 0x0B
	TagPlayerLook         Tag = 0x0C
	TagPlayerPositionLook Tag = 0x0D
	TagBlockDig           Tag = 0x0E
	TagBlockPlace         Tag = 0x0F
	TagHoldingChange      Tag = 0x10
	TagUseBed             Tag = 0x11
	TagAnimation          Tag = 0x12
	TagEntityAction       Tag = 0x13
	TagNamedEntitySpawn   Tag = 0x14
	TagPickupSpawn        Tag = 0x15
	TagCollectItem        Tag = 0x16
	TagAddObject          Tag = 0x17
	TagMobSpawn           Tag = 0x18
	TagEntityPainting     Tag = 0x19
	TagStanceUpdate       Tag = 0x1B
	TagEntityVelocity     Tag = 0x1C
	TagDestroyEntity      Tag = 0x1D
	TagEntity             Tag = 0x1E
	TagEntityMove         Tag = 0x1F
	TagEntityLook         Tag = 0x20
	TagEntityMoveLook     Tag = 0x21
	TagEntityTeleport     Tag = 0x22
	TagEntityStatus       Tag = 0x26
	TagAttachEntity       Tag = 0x27
	TagEntityMetadata     Tag = 0x28
	TagPreChunk           Tag = 0x32
	TagMapChunk           Tag = 0x33
	TagMultiBlockChange   Tag = 0x34
	TagBlockChange        Tag = 0x35
	TagBlockAction        Tag = 0x36
	TagExplosion          Tag = 0x3C
	TagSoundEffect        Tag = 0x3D
	TagNewState           Tag = 0x46
	TagThunderbolt        Tag = 0x47
	TagOpenWindow         Tag = 0x64
	TagCloseWindow        Tag = 0x65
	TagWindowClick        Tag = 0x66
	TagSetSlot            Tag = 0x67
	TagWindowItems        Tag = 0x68
	TagUpdateProgressBar  Tag = 0x69
	TagTransaction        Tag = 0x6A
	TagUpdateSign         Tag = 0x82
	TagMapData            Tag = 0x83
	TagIncrementStatistic Tag = 0xC8
	TagKick               Tag = 0xFF
)

// Spec describes one frame shape.
type Spec struct {
	Tag  Tag
	Name string
	New  func() Frame
}

var specs = []Spec{
	{TagKeepAlive, "keep_alive", func() Frame { return &KeepAlive{} }},
	{TagLogin, "login", func() Frame { return &Login{} }},
	{TagHandshake, "handshake", func() Frame { return &Handshake{} }},
	{TagChat, "chat", func() Frame { return &Chat{} }},
	{TagTimeUpdate, "time_update", func() Frame { return &TimeUpdate{} }},
	{TagEntityEquipment, "entity_equipment", func() Frame { return &EntityEquipment{} }},
	{TagSpawnPosition, "spawn_position", func() Frame { return &SpawnPosition{} }},
	{TagUseEntity, "use_entity", func() Frame { return &UseEntity{} }},
	{TagUpdateHealth, "update_health", func() Frame { return &UpdateHealth{} }},
	{TagRespawn, "respawn", func() Frame { return &Respawn{} }},
	{TagPlayer, "player", func() Frame { return &Player{} }},
	{TagPlayerPosition, "player_position", func() Frame { return &PlayerPosition{} }},
	{TagPlayerLook, "player_look", func() Frame { return &PlayerLook{} }},
	{TagPlayerPositionLook, "player_position_look", func() Frame { return &PlayerPositionLook{} }},
	{TagBlockDig, "block_dig", func() Frame { return &BlockDig{} }},
	{TagBlockPlace, "block_place", func() Frame { return &BlockPlace{} }},
	{TagHoldingChange, "holding_change", func() Frame { return &HoldingChange{} }},
	{TagUseBed, "use_bed", func() Frame { return &UseBed{} }},
	{TagAnimation, "animation", func() Frame { return &Animation{} }},
	{TagEntityAction, "entity_action", func() Frame { return &EntityAction{} }},
	{TagNamedEntitySpawn, "named_entity_spawn", func() Frame { return &NamedEntitySpawn{} }},
	{TagPickupSpawn, "pickup_spawn", func() Frame { return &PickupSpawn{} }},
	{TagCollectItem, "collect_item", func() Frame { return &CollectItem{} }},
	{TagAddObject, "add_object", func() Frame { return &AddObject{} }},
	{TagMobSpawn, "mob_spawn", func() Frame { return &MobSpawn{} }},
	{TagEntityPainting, "entity_painting", func() Frame { return &EntityPainting{} }},
	{TagStanceUpdate, "stance_update", func() Frame { return &StanceUpdate{} }},
	{TagEntityVelocity, "entity_velocity", func() Frame { return &EntityVelocity{} }},
	{TagDestroyEntity, "destroy_entity", func() Frame { return &DestroyEntity{} }},
	{TagEntity, "entity", func() Frame { return &Entity{} }},
	{TagEntityMove, "entity_move", func() Frame { return &EntityMove{} }},
	{TagEntityLook, "entity_look", func() Frame { return &EntityLook{} }},
	{TagEntityMoveLook, "entity_move_look", func() Frame { return &EntityMoveLook{} }},
	{TagEntityTeleport, "entity_teleport", func() Frame { return &EntityTeleport{} }},
	{TagEntityStatus, "entity_status", func() Frame { return &EntityStatus{} }},
	{TagAttachEntity, "attach_entity", func() Frame { return &AttachEntity{} }},
	{TagEntityMetadata, "entity_metadata", func() Frame { return &EntityMetadata{} }},
	{TagPreChunk, "pre_chunk", func() Frame { return &PreChunk{} }},
	{TagMapChunk, "map_chunk", func() Frame { return &MapChunk{} }},
	{TagMultiBlockChange, "multi_block_change", func() Frame { return &MultiBlockChange{} }},
	{TagBlockChange, "block_change", func() Frame { return &BlockChange{} }},
	{TagBlockAction, "block_action", func() Frame { return &BlockAction{} }},
	{TagExplosion, "explosion", func() Frame { return &Explosion{} }},
	{TagSoundEffect, "sound_effect", func() Frame { return &SoundEffect{} }},
	{TagNewState, "new_state", func() Frame { return &NewState{} }},
	{TagThunderbolt, "thunderbolt", func() Frame { return &Thunderbolt{} }},
	{TagOpenWindow, "open_window", func() Frame { return &OpenWindow{} }},
	{TagCloseWindow, "close_window", func() Frame { return &CloseWindow{} }},
	{TagWindowClick, "window_click", func() Frame { return &WindowClick{} }},
	{TagSetSlot, "set_slot", func() Frame { return &SetSlot{} }},
	{TagWindowItems, "window_items", func() Frame { return &WindowItems{} }},
	{TagUpdateProgressBar, "update_progress_bar", func() Frame { return &UpdateProgressBar{} }},
	{TagTransaction, "transaction", func() Frame { return &Transaction{} }},
	{TagUpdateSign, "update_sign", func() Frame { return &UpdateSign{} }},
	{TagMapData, "map_data", func() Frame { return &MapData{} }},
	{TagIncrementStatistic, "increment_statistic", func() Frame { return &IncrementStatistic{} }},
	{TagKick, "kick", func() Frame { return &Kick{} }},
}

var table = buildTable(specs)

func buildTable(list []Spec) [256]*Spec {
	var t [256]*Spec
	for i := range list {
		s := &list[i]
		if t[s.Tag] != nil {
			panic(fmt.Sprintf("proto: tag 0x%02x registered twice", uint8(s.Tag)))
		}
		t[s.Tag] = s
	}
	return t
}

// Lookup returns the shape registered for tag.
func Lookup(tag Tag) (Spec, bool) {
	s := table[tag]
	if s == nil {
		return Spec{}, false
	}
	return *s, true
}

// Specs returns every registered shape in tag order.
func Specs() []Spec {
	out := make([]Spec, 0, len(specs))
	for _, s := range table {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// Decode reads the body of a tag-selected frame from d into a fresh value.
//
// Decode itself only fails for unknown tags. Whether the body was complete
// is a property of d's window, which the caller checks before using the
// frame.
func Decode(tag Tag, d *wire.Decoder) (Frame, error) {
	s := table[tag]
	if s == nil {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, uint8(tag))
	}
	f := s.New()
	f.Decode(d)
	return f, nil
}
