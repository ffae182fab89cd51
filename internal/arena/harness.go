package arena

import (
	"fmt"
	"math/rand"
)

// simTickRate is the fixed harness tick rate.
const simTickRate = 60.0

// SimHarness is a headless simulation used by tests and the report CLI.
// It mirrors the live game loop but has no Ebiten dependency and supports
// deterministic seeding and structured logging.
type SimHarness struct {
	ArenaHalf float64
	Roster    *TeamRoster
	Coord     *CombatCoordinator
	Collision *ArenaCollision
	Effects   *EffectsBuffer
	Log       *SimLog
	Groups    []*Group

	player     *Agent
	aimDir     Vec3
	weaponCfgs map[WeaponKind]WeaponConfig

	tick int
	dt   float64
	rng  *rand.Rand

	verbose bool
	seed    int64
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // arena size, seed, verbose, pillars
	simOptAgent                      // player / enemies / allies
	simOptGroup                      // formation grouping
)

// SimOption is a builder function applied to a SimHarness during
// construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*SimHarness)
}

// WithArenaSize sets the square arena half-extent.
func WithArenaSize(half float64) SimOption {
	return SimOption{simOptInfra, func(h *SimHarness) { h.ArenaHalf = half }}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(h *SimHarness) {
		h.seed = seed
		h.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(h *SimHarness) { h.verbose = v }}
}

// WithWeaponConfigs overrides the built-in weapon tuning table, typically
// with values loaded from a weapons file.
func WithWeaponConfigs(cfgs map[WeaponKind]WeaponConfig) SimOption {
	return SimOption{simOptInfra, func(h *SimHarness) { h.weaponCfgs = cfgs }}
}

// WithPillar adds a cylindrical obstacle.
func WithPillar(x, z, radius float64) SimOption {
	return SimOption{simOptInfra, func(h *SimHarness) {
		h.Collision.AddPillar(x, z, radius)
	}}
}

// WithPlayer places the player agent.
func WithPlayer(x, z float64) SimOption {
	return SimOption{simOptAgent, func(h *SimHarness) {
		p := NewAgent(-1, "P", TeamPlayer, Vec3{X: x, Z: z}, ModeRoam, h.subRNG())
		h.player = p
		h.Roster.SetPlayer(p)
	}}
}

// WithEnemy adds an AI enemy with the given behaviour mode.
func WithEnemy(id int, x, z float64, mode AIMode) SimOption {
	return SimOption{simOptAgent, func(h *SimHarness) {
		a := NewAgent(id, fmt.Sprintf("E%d", id), TeamEnemy, Vec3{X: x, Z: z}, mode, h.subRNG())
		a.SetWeapon(h.weaponCfgs[WeaponEnemyRifle])
		h.Roster.AddEnemy(a)
		h.Coord.AddAgent(a)
	}}
}

// WithAlly adds an AI ally in support mode.
func WithAlly(id int, x, z float64) SimOption {
	return SimOption{simOptAgent, func(h *SimHarness) {
		a := NewAgent(id, fmt.Sprintf("A%d", id), TeamPlayer, Vec3{X: x, Z: z}, ModeAllySupport, h.subRNG())
		a.SetWeapon(h.weaponCfgs[WeaponEnemyRifle])
		h.Roster.AddAlly(a)
		h.Coord.AddAgent(a)
	}}
}

// WithEnemyGroup forms existing enemies (by ID, in order) into a formation.
// The first listed ID becomes the leader.
func WithEnemyGroup(ids ...int) SimOption {
	return SimOption{simOptGroup, func(h *SimHarness) {
		var members []*Agent
		for _, id := range ids {
			for _, a := range h.Roster.GetEnemies() {
				if a.ID() == id {
					members = append(members, a)
					break
				}
			}
		}
		if len(members) == 0 {
			return
		}
		g := NewGroup(members[0].Position(), len(members))
		h.Groups = append(h.Groups, g)
		for i, m := range members {
			m.SetMode(ModeGroupFormation)
			m.JoinGroup(g, i)
		}
	}}
}

// NewSimHarness constructs a harness from the given options in three
// ordered passes: infrastructure, agents, groups.
func NewSimHarness(opts ...SimOption) *SimHarness {
	h := &SimHarness{
		ArenaHalf: 500,
		dt:        1.0 / simTickRate,
		seed:      1,
		rng:       rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
		aimDir:    Vec3{Z: 1},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(h)
		}
	}
	if h.Log == nil {
		h.Log = NewSimLog(h.verbose)
	}
	if h.weaponCfgs == nil {
		h.weaponCfgs = DefaultWeaponConfigs()
	}
	h.Roster = NewTeamRoster()
	h.Collision = NewArenaCollision(h.ArenaHalf)
	h.Effects = NewEffectsBuffer()
	h.Coord = NewCombatCoordinator(h.Roster, h.rng.Int63())
	h.Coord.SetCollision(h.Collision)
	h.Coord.SetSinks(h.Effects, nil, nil)
	h.wireObservers()

	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(h)
		}
	}
	for _, o := range opts {
		if o.kind == simOptGroup {
			o.fn(h)
		}
	}

	if h.player != nil {
		h.Coord.SetPlayerPositionFunc(func() Vec3 { return h.player.Position() })
		wm := NewWeaponManager(h.weaponCfgs, WeaponRifle, WeaponPistol, WeaponGrenade)
		wm.SetAimProvider(func() (Vec3, Vec3) {
			return h.player.Position().Add(Vec3{Y: muzzleHeight}), h.aimDir
		})
		h.Coord.SetPlayerWeapons(wm)
	}
	return h
}

// subRNG derives an independent per-agent RNG from the harness seed.
func (h *SimHarness) subRNG() *rand.Rand {
	return rand.New(rand.NewSource(h.rng.Int63())) // #nosec G404 -- test harness
}

func (h *SimHarness) wireObservers() {
	h.Roster.SetObservers(
		func(a *Agent, amount float64, at Vec3) {
			h.Log.Add(h.tick, a.Label(), a.Team().String(), "health", "damage",
				fmt.Sprintf("-%.0f to %.0f", amount, a.Health()), amount)
		},
		func(a *Agent) {
			h.Log.Add(h.tick, a.Label(), a.Team().String(), "health", "killed", "down", 0)
		},
	)
	h.Coord.Hitscan().SetHitObserver(func(t *Agent, dmg float64, at Vec3) {
		h.Log.Add(h.tick, "P", "player", "fire", "hitscan_hit",
			fmt.Sprintf("hit %s for %.0f", t.Label(), dmg), dmg)
	})
	h.Coord.Grenades().SetExplodeObserver(func(center Vec3, hits int) {
		h.Log.Add(h.tick, "P", "player", "grenade", "explosion",
			fmt.Sprintf("at (%.1f,%.1f) hits=%d", center.X, center.Z, hits), float64(hits))
	})
	h.Coord.SetAgentFireObserver(func(a *Agent) {
		h.Log.Add(h.tick, a.Label(), a.Team().String(), "fire", "shot",
			"projectile spawned", 0)
	})
}

// Player returns the player agent, or nil.
func (h *SimHarness) Player() *Agent { return h.player }

// SetPlayerAim points the player's weapons along dir.
func (h *SimHarness) SetPlayerAim(dir Vec3) { h.aimDir = dir.Normalize() }

// AimPlayerAt points the player's weapons at an agent's torso centre.
func (h *SimHarness) AimPlayerAt(target *Agent) {
	if h.player == nil || target == nil {
		return
	}
	muzzle := h.player.Position().Add(Vec3{Y: muzzleHeight})
	center := target.Position().Grounded().Add(Vec3{Y: aimCenterHeight})
	h.SetPlayerAim(center.Sub(muzzle))
}

// MovePlayer teleports the player (harness-level scripting).
func (h *SimHarness) MovePlayer(x, z float64) {
	if h.player != nil {
		h.player.pos = Vec3{X: x, Z: z}
	}
}

// MovePlayerBy shifts the player by a ground-plane delta, resolved against
// arena collision.
func (h *SimHarness) MovePlayerBy(dx, dz float64) {
	if h.player == nil {
		return
	}
	next := h.player.pos.Add(Vec3{X: dx, Z: dz})
	next = h.Collision.CheckCollision(h.player.pos, next, agentRadius, agentHeight)
	h.player.pos = next.Grounded()
}

// Dt returns the fixed per-tick delta time.
func (h *SimHarness) Dt() float64 { return h.dt }

// CurrentTick returns the current simulation tick.
func (h *SimHarness) CurrentTick() int { return h.tick }

// Seed returns the harness seed (reporting).
func (h *SimHarness) Seed() int64 { return h.seed }

// RunTicks advances the simulation n ticks.
func (h *SimHarness) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.tick++
		h.runOneTick()
	}
}

// RunUntil advances up to maxTicks, stopping early if predicate returns
// true. Returns the tick at which it was satisfied, or -1.
func (h *SimHarness) RunUntil(predicate func(*SimHarness) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.tick++
		h.runOneTick()
		if predicate(h) {
			return h.tick
		}
	}
	return -1
}

// runOneTick mirrors the live game update for the headless harness.
func (h *SimHarness) runOneTick() {
	prevModes := make(map[int]AIMode, len(h.Coord.Agents()))
	for _, a := range h.Coord.Agents() {
		prevModes[a.ID()] = a.Mode()
	}

	h.Coord.Update(h.dt)
	h.Effects.Update()

	for _, a := range h.Coord.Agents() {
		if a.Mode() != prevModes[a.ID()] {
			h.Log.Add(h.tick, a.Label(), a.Team().String(), "ai", "mode_change",
				fmt.Sprintf("%s → %s", prevModes[a.ID()], a.Mode()), 0)
		}
		h.Log.AddVerbose(h.tick, a.Label(), a.Team().String(), "move", "position",
			fmt.Sprintf("(%.1f,%.1f)", a.Position().X, a.Position().Z), 0)
	}
	if h.player != nil {
		h.Log.AddVerbose(h.tick, "P", "player", "move", "position",
			fmt.Sprintf("(%.1f,%.1f)", h.player.Position().X, h.player.Position().Z), 0)
	}
}

// AgentSnapshot is a lightweight copy of one agent's state at a tick.
type AgentSnapshot struct {
	ID     int
	Label  string
	Team   Team
	X, Z   float64
	Mode   AIMode
	Health float64
}

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick   int
	Agents []AgentSnapshot
}

// Snapshot returns the current state of all AI agents.
func (h *SimHarness) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: h.tick}
	for _, a := range h.Coord.Agents() {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			ID:     a.ID(),
			Label:  a.Label(),
			Team:   a.Team(),
			X:      a.Position().X,
			Z:      a.Position().Z,
			Mode:   a.Mode(),
			Health: a.Health(),
		})
	}
	return snap
}
