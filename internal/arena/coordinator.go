package arena

import "math/rand"

// CombatCoordinator drives the per-tick update of weapons, agents, and both
// projectile pipelines, and applies team-aware damage dispatch through the
// roster. Single-threaded and frame-driven: one Update(dt) per tick, no
// operation suspends mid-tick.
type CombatCoordinator struct {
	roster    Roster
	collision CollisionChecker
	visual    VisualSink
	audio     AudioSink

	weapons     *WeaponManager
	hitscan     *HitscanResolver
	projectiles *ProjectileSimulator
	grenades    *GrenadeSimulator

	agents []*Agent

	// playerPosFn supplies the live player position each tick. Absent, AI
	// agents never learn the player and keep roaming.
	playerPosFn func() Vec3

	// onAgentFire, if set, observes every AI shot (sim logging).
	onAgentFire func(a *Agent)

	rng *rand.Rand
}

// NewCombatCoordinator wires the core around an external roster. Optional
// collaborators may be nil and degrade to no-ops.
func NewCombatCoordinator(roster Roster, seed int64) *CombatCoordinator {
	c := &CombatCoordinator{
		roster: roster,
		visual: nopVisual{},
		audio:  nopAudio{},
		rng:    rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation only
	}
	c.hitscan = NewHitscanResolver(roster, c.rng.Int63())
	c.projectiles = NewProjectileSimulator()
	c.grenades = NewGrenadeSimulator(DefaultWeaponConfigs()[WeaponGrenade], roster)
	return c
}

// SetCollision wires the external collision system for all managed agents.
func (c *CombatCoordinator) SetCollision(col CollisionChecker) {
	c.collision = col
	for _, a := range c.agents {
		a.SetCollision(col)
	}
}

// SetSinks wires optional effect collaborators onto every pipeline.
func (c *CombatCoordinator) SetSinks(v VisualSink, audio AudioSink, hud HUDSink) {
	if v != nil {
		c.visual = v
	}
	if audio != nil {
		c.audio = audio
	}
	c.hitscan.SetVisualSink(v)
	c.projectiles.SetVisualSink(v)
	c.grenades.SetSinks(v, audio)
	if c.weapons != nil {
		c.weapons.SetSinks(audio, hud)
	}
}

// SetPlayerWeapons attaches the player's weapon manager and wires its
// resolvers.
func (c *CombatCoordinator) SetPlayerWeapons(m *WeaponManager) {
	c.weapons = m
	m.SetResolvers(c.hitscan, c.projectiles, c.grenades)
}

// SetPlayerPositionFunc wires the live player position source.
func (c *CombatCoordinator) SetPlayerPositionFunc(fn func() Vec3) {
	c.playerPosFn = fn
}

// SetAgentFireObserver wires an optional AI shot callback.
func (c *CombatCoordinator) SetAgentFireObserver(fn func(*Agent)) {
	c.onAgentFire = fn
}

// Weapons returns the player's weapon manager, or nil.
func (c *CombatCoordinator) Weapons() *WeaponManager { return c.weapons }

// Hitscan returns the instant-fire resolver.
func (c *CombatCoordinator) Hitscan() *HitscanResolver { return c.hitscan }

// Projectiles returns the traveling-projectile simulator.
func (c *CombatCoordinator) Projectiles() *ProjectileSimulator { return c.projectiles }

// Grenades returns the grenade simulator.
func (c *CombatCoordinator) Grenades() *GrenadeSimulator { return c.grenades }

// Agents returns the managed agent list.
func (c *CombatCoordinator) Agents() []*Agent { return c.agents }

// AddAgent registers an agent with the coordinator: collision wiring, and an
// AI fire callback that spawns traveling projectiles on the agent's team.
// AI-fired shots are physically simulated, never hitscan resolved.
func (c *CombatCoordinator) AddAgent(a *Agent) {
	a.SetCollision(c.collision)
	team := a.Team()
	cfg := fireConfigOf(a)
	a.SetFireFunc(func(origin, dir Vec3) {
		c.projectiles.Spawn(origin, dir, cfg.speed, cfg.maxRange, cfg.damage, team, true)
		c.visual.MuzzleFlash(origin, a.Yaw(), team)
		c.audio.PlayShot(WeaponEnemyRifle)
		if c.onAgentFire != nil {
			c.onAgentFire(a)
		}
	})
	c.agents = append(c.agents, a)
}

type fireConfig struct {
	speed, maxRange, damage float64
}

func fireConfigOf(a *Agent) fireConfig {
	return fireConfig{speed: a.fireSpeed, maxRange: a.fireRangeMax, damage: a.fireDamage}
}

// Update advances one simulation tick: player weapon state, every agent's
// AI, projectile travel and impact, grenade physics and fuses.
func (c *CombatCoordinator) Update(dt float64) {
	if c.weapons != nil {
		c.weapons.Update(dt)
	}

	var playerPos Vec3
	havePlayer := false
	if c.playerPosFn != nil {
		playerPos = c.playerPosFn()
		havePlayer = true
	}

	enemies := c.roster.GetEnemies()
	allies := c.roster.GetAllies()

	for _, a := range c.agents {
		if havePlayer {
			a.SetPlayerPosition(playerPos)
		}
		if a.Team() == TeamPlayer {
			// Allies press toward nearby hostiles and shoot enemies.
			a.SetNearbyHostiles(enemies)
			a.SetShootTargets(enemies)
		} else {
			a.SetShootTargets(allies)
		}
		a.Update(dt)
	}

	c.projectiles.Update(dt)
	c.projectiles.CheckCollisions(enemies, allies,
		func(t *Agent, dmg float64, at Vec3) { c.roster.DamageEnemy(t, dmg, at) },
		func(t *Agent, dmg float64, at Vec3) { c.roster.DamageAlly(t, dmg, at) },
	)
	c.grenades.Update(dt)
}
