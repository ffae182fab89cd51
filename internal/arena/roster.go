package arena

// TeamRoster is the in-repo roster implementation used by the game and the
// headless harness. The core only ever sees the Roster interface; an
// embedding game may substitute its own registry.
type TeamRoster struct {
	player  *Agent
	allies  []*Agent
	enemies []*Agent

	// onDamage, if set, observes every applied health change.
	onDamage func(target *Agent, amount float64, at Vec3)
	// onKill, if set, observes deaths.
	onKill func(target *Agent)
}

// NewTeamRoster creates an empty roster.
func NewTeamRoster() *TeamRoster {
	return &TeamRoster{}
}

// SetPlayer registers the player agent. The player is reported among the
// allies: enemy fire treats the whole player side as one target list.
func (r *TeamRoster) SetPlayer(a *Agent) { r.player = a }

// Player returns the player agent, or nil.
func (r *TeamRoster) Player() *Agent { return r.player }

// AddAlly registers an AI ally.
func (r *TeamRoster) AddAlly(a *Agent) { r.allies = append(r.allies, a) }

// AddEnemy registers an AI enemy.
func (r *TeamRoster) AddEnemy(a *Agent) { r.enemies = append(r.enemies, a) }

// SetObservers wires optional damage/kill callbacks (sim logging).
func (r *TeamRoster) SetObservers(onDamage func(*Agent, float64, Vec3), onKill func(*Agent)) {
	r.onDamage = onDamage
	r.onKill = onKill
}

// GetEnemies returns the opposing force.
func (r *TeamRoster) GetEnemies() []*Agent { return r.enemies }

// GetAllies returns the player's side, player included.
func (r *TeamRoster) GetAllies() []*Agent {
	if r.player == nil {
		return r.allies
	}
	out := make([]*Agent, 0, len(r.allies)+1)
	out = append(out, r.player)
	out = append(out, r.allies...)
	return out
}

// DamageEnemy applies damage to an opposing agent.
func (r *TeamRoster) DamageEnemy(a *Agent, amount float64, at Vec3) {
	r.damage(a, amount, at)
}

// DamageAlly applies damage to a player-side agent.
func (r *TeamRoster) DamageAlly(a *Agent, amount float64, at Vec3) {
	r.damage(a, amount, at)
}

func (r *TeamRoster) damage(a *Agent, amount float64, at Vec3) {
	if a == nil || !a.Alive() {
		return
	}
	a.applyDamage(amount)
	if r.onDamage != nil {
		r.onDamage(a, amount, at)
	}
	if !a.Alive() && r.onKill != nil {
		r.onKill(a)
	}
}

// AliveEnemies counts living opposing agents.
func (r *TeamRoster) AliveEnemies() int {
	n := 0
	for _, a := range r.enemies {
		if a.Alive() {
			n++
		}
	}
	return n
}

// AliveAllies counts living player-side agents, player included.
func (r *TeamRoster) AliveAllies() int {
	n := 0
	for _, a := range r.GetAllies() {
		if a.Alive() {
			n++
		}
	}
	return n
}
