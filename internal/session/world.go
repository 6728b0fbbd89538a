package session

import (
	"github.com/rs/zerolog/log"

	"github.com/blockwire/blockwire/internal/client"
	"github.com/blockwire/blockwire/internal/wire"
	"github.com/blockwire/blockwire/pkg/proto"
)

// World is the little the session remembers about the game.
type World struct {
	LoggedIn  bool
	EntityID  int32
	MapSeed   int64
	Dimension int8
	Time      int64
	Spawn     proto.Position
	Health    int16
	Position  proto.PlayerPositionLook
	Entities  int
	Raining   bool

	entities map[int32]struct{}
}

func (w *World) track(id int32) {
	if w.entities == nil {
		w.entities = make(map[int32]struct{})
	}
	w.entities[id] = struct{}{}
}

func (w *World) forget(id int32) {
	delete(w.entities, id)
}

func (s *Session) routes() {
	m := s.mux
	m.Handle(proto.TagHandshake, s.onHandshake)
	m.Handle(proto.TagLogin, s.onLogin)
	m.Handle(proto.TagChat, s.onChat)
	m.Handle(proto.TagKick, s.onKick)
	m.Handle(proto.TagPlayerPositionLook, s.onPositionLook)

	m.Handle(proto.TagTimeUpdate, func(_ *client.Client, f proto.Frame) {
		s.world.Time = f.(*proto.TimeUpdate).Time
	})
	m.Handle(proto.TagSpawnPosition, func(_ *client.Client, f proto.Frame) {
		p := f.(*proto.SpawnPosition)
		s.world.Spawn = proto.Position{X: p.X, Y: p.Y, Z: p.Z}
	})
	m.Handle(proto.TagUpdateHealth, func(_ *client.Client, f proto.Frame) {
		s.world.Health = f.(*proto.UpdateHealth).Health
		if s.world.Health <= 0 {
			log.Info().Msg("you died")
		}
	})
	m.Handle(proto.TagRespawn, func(_ *client.Client, f proto.Frame) {
		s.world.Dimension = f.(*proto.Respawn).Dimension
	})
	m.Handle(proto.TagNewState, func(_ *client.Client, f proto.Frame) {
		switch f.(*proto.NewState).Reason {
		case 1:
			s.world.Raining = true
		case 2:
			s.world.Raining = false
		}
	})

	m.Handle(proto.TagNamedEntitySpawn, func(_ *client.Client, f proto.Frame) {
		s.world.track(f.(*proto.NamedEntitySpawn).EntityID)
	})
	m.Handle(proto.TagPickupSpawn, func(_ *client.Client, f proto.Frame) {
		s.world.track(f.(*proto.PickupSpawn).EntityID)
	})
	m.Handle(proto.TagAddObject, func(_ *client.Client, f proto.Frame) {
		s.world.track(f.(*proto.AddObject).EntityID)
	})
	m.Handle(proto.TagMobSpawn, func(_ *client.Client, f proto.Frame) {
		s.world.track(f.(*proto.MobSpawn).EntityID)
	})
	m.Handle(proto.TagEntityPainting, func(_ *client.Client, f proto.Frame) {
		s.world.track(f.(*proto.EntityPainting).EntityID)
	})
	m.Handle(proto.TagDestroyEntity, func(_ *client.Client, f proto.Frame) {
		s.world.forget(f.(*proto.DestroyEntity).EntityID)
	})
}

func (s *Session) onHandshake(c *client.Client, f proto.Frame) {
	hash := f.(*proto.Handshake).Value.String()
	if hash != OfflineHash {
		log.Warn().Str("hash", hash).Msg("server expects an authenticated account, logging in anyway")
	}
	c.Enqueue(&proto.Login{
		ID:       proto.ProtocolVersion,
		Username: wire.WideFromString(s.username),
	})
	c.MarkConnected()
}

func (s *Session) onLogin(_ *client.Client, f proto.Frame) {
	l := f.(*proto.Login)
	s.world.LoggedIn = true
	s.world.EntityID = l.ID
	s.world.MapSeed = l.MapSeed
	s.world.Dimension = l.Dimension
	log.Info().Int32("entity", l.ID).Int8("dimension", l.Dimension).Msg("logged in")
}

func (s *Session) onChat(_ *client.Client, f proto.Frame) {
	log.Info().Str("message", f.(*proto.Chat).Message.String()).Msg("chat")
}

func (s *Session) onKick(c *client.Client, f proto.Frame) {
	log.Warn().Str("reason", f.(*proto.Kick).Reason.String()).Msg("kicked by server")
	if err := c.Disconnect(); err != nil {
		log.Debug().Err(err).Msg("disconnect after kick")
	}
}

// onPositionLook stores the server's placement and confirms it. The server
// does not spawn the player until it has been echoed.
func (s *Session) onPositionLook(c *client.Client, f proto.Frame) {
	p := *f.(*proto.PlayerPositionLook)
	s.world.Position = p
	c.Enqueue(&p)
}
