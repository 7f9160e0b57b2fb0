// Package room drives the room-to-room progression of a run: clear
// detection, the settle delay, doors, transitions, endless waves and
// chapter victory.
package room

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"math"
	"math/rand"
	"time"
)

const (
	// SettleDelay separates a room clear from the door or auto-advance.
	SettleDelay = 1500 * time.Millisecond
	// EndlessRoomsPerWave is the room count of one endless wave.
	EndlessRoomsPerWave = 10
	// AngelHeal is the share of max HP restored on entering an angel room.
	AngelHeal = 0.30

	magnetSpeed   = 8.0
	collectRadius = 10.0
	doorRadius    = 16.0
)

// Phase is the machine's current state.
type Phase uint8

const (
	Active Phase = iota
	Cleared
	DoorAvailable
	Transitioning
	WaveComplete
	Victory
)

func (p Phase) String() string {
	return [...]string{"active", "cleared", "door", "transitioning", "wave_complete", "victory"}[p]
}

// Request asks the spawner to populate a room.
type Request struct {
	Chapter *scaling.Chapter
	Room    int
	Total   int
	Wave    int
	Plan    scaling.RoomPlan
	Scale   scaling.Scale
}

// Spawner creates and destroys room contents. Spawn returns the room's
// boss, or ecs.NilEntity when the room has none.
type Spawner interface {
	Spawn(req Request) ecs.EntityID
	// Pending counts telegraphed spawns that have not materialized yet.
	Pending() int
	// ClearRoom destroys enemies, pending spawns, the door and pickups.
	ClearRoom()
	ClearEnemyBullets()
	SpawnDoor(at vmath.Vec) ecs.EntityID
}

// Collector applies a pickup the player touched.
type Collector interface {
	Collect(id ecs.EntityID) bool
}

// Preferences holds persisted player settings the machine reads.
type Preferences interface {
	AutoAdvance() bool
}

// State is the room/wave snapshot.
type State struct {
	Room          int
	Total         int
	Wave          int
	Cleared       bool
	Transitioning bool
	Endless       bool
	// EndlessMultiplier is 1.5^(wave-1); 1 outside endless mode.
	EndlessMultiplier float64
	Phase             Phase
	Kind              scaling.RoomKind
	Boss              ecs.EntityID
	Scale             scaling.Scale
}

// Deps wires a machine.
type Deps struct {
	World      *ecs.World
	Clock      *clock.Clock
	Rng        *rand.Rand
	Events     *event.Dispatcher
	Spawner    Spawner
	Collector  Collector
	Prefs      Preferences // nil means auto-advance
	Player     *player.Player
	Run        *run.State
	Chapter    *scaling.Chapter
	Difficulty scaling.Difficulty
	Endless    bool
	Arena      vmath.Rect
	// OnVictory runs once when the last room of a chapter settles.
	OnVictory func()
}

// Machine is the room/wave state machine.
type Machine struct {
	d        Deps
	st       State
	settleAt clock.Tick
	door     ecs.EntityID
}

// New returns a machine positioned before room 1. Call Start to enter it.
func New(d Deps) *Machine {
	total := d.Chapter.Rooms
	if d.Endless {
		total = EndlessRoomsPerWave
	}
	return &Machine{
		d: d,
		st: State{
			Total:             total,
			Wave:              1,
			Endless:           d.Endless,
			EndlessMultiplier: 1,
			Transitioning:     true,
			Phase:             Transitioning,
		},
	}
}

// State returns a copy of the current room state.
func (m *Machine) State() State { return m.st }

// Wave returns the current endless wave (1 outside endless mode).
func (m *Machine) Wave() int { return m.st.Wave }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.st.Phase }

// ActiveBoss returns the room's live boss, if any.
func (m *Machine) ActiveBoss() ecs.EntityID { return m.st.Boss }

// Door returns the exit door entity, if spawned.
func (m *Machine) Door() ecs.EntityID { return m.door }

// Entry is where the player stands on entering a room.
func (m *Machine) Entry() vmath.Vec {
	c := m.d.Arena.Center()
	return vmath.Vec{X: c.X, Y: m.d.Arena.Max.Y - 40}
}

// Start enters the first room.
func (m *Machine) Start() {
	m.st.Room = 1
	m.enter()
}

// RoomsCleared counts rooms finished so far, multiplying out earlier
// endless waves.
func (m *Machine) RoomsCleared() int {
	n := (m.st.Wave-1)*m.st.Total + m.st.Room - 1
	if m.st.Cleared {
		n++
	}
	return n
}

// ClearBoss drops the active boss reference if it is id.
func (m *Machine) ClearBoss(id ecs.EntityID) bool {
	if id == ecs.NilEntity || id != m.st.Boss {
		return false
	}
	m.st.Boss = ecs.NilEntity
	return true
}

// CheckClear clears the room when no live enemy and no pending spawn
// remain. It is a no-op outside the Active phase, so repeated calls from
// simultaneous deaths are harmless.
func (m *Machine) CheckClear() {
	if m.st.Phase != Active || m.st.Cleared || m.st.Transitioning {
		return
	}
	if m.liveEnemies() > 0 || m.d.Spawner.Pending() > 0 {
		return
	}
	m.clear()
}

func (m *Machine) liveEnemies() int {
	n := 0
	for _, id := range m.d.World.Query(component.CEnemy) {
		if !m.d.World.Get(id, component.CEnemy).(component.Enemy).Dead {
			n++
		}
	}
	return n
}

func (m *Machine) clear() {
	m.st.Cleared = true
	m.st.Phase = Cleared
	m.st.Boss = ecs.NilEntity
	m.d.Spawner.ClearEnemyBullets()
	for _, id := range m.d.World.Query(component.CPickup) {
		pk := m.d.World.Get(id, component.CPickup).(component.Pickup)
		pk.Magnet = true
		m.d.World.Add(id, pk)
	}
	m.d.Run.AddRoomClear()
	m.settleAt = m.d.Clock.After(SettleDelay)
}

// Update runs once per tick: pickups drift and get collected, and a
// cleared room settles once its delay has passed.
func (m *Machine) Update() {
	m.pickups()
	switch m.st.Phase {
	case Active:
		m.CheckClear()
	case Cleared:
		if m.d.Clock.Reached(m.settleAt) {
			m.settle()
		}
	}
}

func (m *Machine) pickups() {
	p := m.d.Player
	reach := p.Radius + collectRadius
	for _, id := range m.d.World.Query(component.CPickup, component.CPosition) {
		pos := m.d.World.Get(id, component.CPosition).(component.Position)
		pk := m.d.World.Get(id, component.CPickup).(component.Pickup)
		if pk.Magnet {
			step := p.Pos.Sub(pos.Vec)
			if step.Len() > magnetSpeed {
				step = step.Normalize().Scale(magnetSpeed)
			}
			pos.Vec = pos.Add(step)
			m.d.World.Add(id, pos)
		}
		if p.Alive() && pos.DistSq(p.Pos) <= reach*reach {
			m.d.Collector.Collect(id)
		}
	}
}

// settle finishes a cleared room: leftovers are collected, the clear is
// reported, then the run wins, advances or opens a door.
func (m *Machine) settle() {
	for _, id := range m.d.World.Query(component.CPickup) {
		m.d.Collector.Collect(id)
	}
	m.d.Events.Emit(event.RoomCleared{
		Room:          m.st.Room,
		Wave:          m.st.Wave,
		GoldCollected: m.d.Run.RoomGold,
		HealthGained:  m.d.Run.RoomHealth,
	})

	if !m.st.Endless && m.st.Room >= m.st.Total {
		m.st.Phase = Victory
		m.d.Events.Emit(event.Victory{Chapter: m.d.Chapter.ID})
		if m.d.OnVictory != nil {
			m.d.OnVictory()
		}
		return
	}
	if m.d.Prefs == nil || m.d.Prefs.AutoAdvance() {
		m.Advance()
		return
	}
	at := m.d.Arena.Center()
	at.Y = m.d.Arena.Min.Y + 40
	m.door = m.d.Spawner.SpawnDoor(at)
	m.st.Phase = DoorAvailable
	m.d.Events.Emit(event.DoorOpened{At: at})
}

// EnterDoor advances when a door is available and the player touches it.
func (m *Machine) EnterDoor() bool {
	if m.st.Phase != DoorAvailable || m.door == ecs.NilEntity {
		return false
	}
	pos, ok := m.d.World.Get(m.door, component.CPosition).(component.Position)
	if !ok {
		return false
	}
	reach := doorRadius + m.d.Player.Radius
	if pos.DistSq(m.d.Player.Pos) > reach*reach {
		return false
	}
	m.Advance()
	return true
}

// Advance transitions to the next room. It only acts on a cleared room.
func (m *Machine) Advance() {
	if !m.st.Cleared || m.st.Phase == Victory || m.st.Transitioning {
		return
	}
	m.st.Transitioning = true
	m.st.Phase = Transitioning
	m.d.Spawner.ClearRoom()
	m.st.Boss = ecs.NilEntity
	m.door = ecs.NilEntity

	m.st.Room++
	if m.st.Endless && m.st.Room > m.st.Total {
		m.st.Phase = WaveComplete
		m.st.Room = 1
		m.st.Wave++
		m.st.EndlessMultiplier = scaling.EndlessDifficulty(m.st.Wave)
		m.d.Events.Emit(event.WaveStarted{Wave: m.st.Wave, Difficulty: m.st.EndlessMultiplier})
	}
	m.enter()
}

// enter populates the current room number and makes it Active.
func (m *Machine) enter() {
	p := m.d.Player
	p.Pos = m.Entry()
	p.RefreshRoomLayers()
	m.d.Run.ResetRoom()

	m.st.Kind = scaling.KindOf(m.st.Room, m.st.Total)
	m.st.Scale = scaling.ScaleFor(m.d.Chapter, m.st.Room, m.d.Difficulty, m.st.EndlessMultiplier)
	plan := m.d.Chapter.PlanRoom(m.st.Room, m.st.Total, m.d.Rng)
	m.st.Boss = m.d.Spawner.Spawn(Request{
		Chapter: m.d.Chapter,
		Room:    m.st.Room,
		Total:   m.st.Total,
		Wave:    m.st.Wave,
		Plan:    plan,
		Scale:   m.st.Scale,
	})
	m.st.Cleared = false
	m.st.Transitioning = false
	m.st.Phase = Active
	m.d.Events.Emit(event.RoomEntered{Room: m.st.Room, Total: m.st.Total, Wave: m.st.Wave, Kind: m.st.Kind.String()})

	if m.st.Kind == scaling.RoomAngel {
		if healed := p.Heal(math.Round(p.Stats.MaxHP * AngelHeal)); healed > 0 {
			m.d.Run.RoomHealth += healed
			m.d.Events.Emit(event.PlayerHealed{Amount: healed, Health: p.HP, Source: "angel"})
		}
		m.clear()
	}
}
