package arena

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	screenW = 1280
	screenH = 720

	// viewScale converts world units to pixels (top-down XZ projection).
	viewScale = 4.0

	playerMoveSpeed = 7.0 // player units per second
)

// Game is the Ebiten front-end around a live SimHarness. All combat and AI
// logic stays in the core; this layer is input and drawing only.
type Game struct {
	h      *SimHarness
	notice string // transient status line (clipboard copy result)
}

// NewGame builds the default live scenario: a player with three weapons, a
// hunting pack, a formation group, and two support allies.
func NewGame(seed int64) *Game {
	h := NewSimHarness(
		WithArenaSize(150),
		WithSeed(seed),
		WithPlayer(0, 0),
		WithAlly(100, -8, -4),
		WithAlly(101, 8, -4),
		WithEnemy(0, 60, 80, ModeHunt),
		WithEnemy(1, -70, 90, ModeHunt),
		WithEnemy(2, 90, -40, ModeGroupFormation),
		WithEnemy(3, 95, -45, ModeGroupFormation),
		WithEnemy(4, 85, -50, ModeGroupFormation),
		WithEnemy(5, -100, -100, ModeRoam),
		WithEnemyGroup(2, 3, 4),
		WithPillar(30, 30, 4),
		WithPillar(-40, 10, 6),
	)
	return &Game{h: h}
}

// Update advances one frame: player input, then one core tick.
func (g *Game) Update() error {
	g.handleInput()
	g.h.RunTicks(1)
	return nil
}

func (g *Game) handleInput() {
	dt := g.h.Dt()

	var dx, dz float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		dz -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		dz += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		dx -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		dx += 1
	}
	if dx != 0 || dz != 0 {
		l := math.Hypot(dx, dz)
		g.h.MovePlayerBy(dx/l*playerMoveSpeed*dt, dz/l*playerMoveSpeed*dt)
	}

	// Aim at the mouse cursor.
	mx, my := ebiten.CursorPosition()
	wx, wz := g.screenToWorld(mx, my)
	p := g.h.Player().Position()
	aim := Vec3{X: wx - p.X, Z: wz - p.Z}
	if aim.LengthSq() > 1e-6 {
		g.h.SetPlayerAim(aim)
	}

	wm := g.h.Coord.Weapons()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		wm.StartFiring()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		wm.StopFiring()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		wm.Reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		wm.SwitchWeapon(WeaponRifle)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		wm.SwitchWeapon(WeaponPistol)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key3) {
		wm.SwitchWeapon(WeaponGrenade)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if _, err := CopyDebugReport(g.h, "E0", 300); err != nil {
			g.notice = "debug report: clipboard unavailable"
		} else {
			g.notice = "debug report copied to clipboard"
		}
	}
}

// worldToScreen projects a ground position into screen pixels, camera
// centred on the player.
func (g *Game) worldToScreen(p Vec3) (float32, float32) {
	c := g.h.Player().Position()
	return float32((p.X-c.X)*viewScale + screenW/2),
		float32((p.Z-c.Z)*viewScale + screenH/2)
}

func (g *Game) screenToWorld(sx, sy int) (float64, float64) {
	c := g.h.Player().Position()
	return (float64(sx)-screenW/2)/viewScale + c.X,
		(float64(sy)-screenH/2)/viewScale + c.Z
}

// Draw renders the arena, all combatants, and active effects.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 28, B: 24, A: 255})

	g.drawArena(screen)
	g.drawEffects(screen)
	g.drawProjectiles(screen)
	g.drawGrenades(screen)
	for _, a := range g.h.Coord.Agents() {
		g.drawAgent(screen, a)
	}
	g.drawPlayer(screen)
	g.drawHUD(screen)
}

func (g *Game) drawArena(screen *ebiten.Image) {
	half := g.h.ArenaHalf
	corners := [4]Vec3{
		{X: -half, Z: -half}, {X: half, Z: -half},
		{X: half, Z: half}, {X: -half, Z: half},
	}
	border := color.RGBA{R: 70, G: 80, B: 70, A: 255}
	for i := range corners {
		x0, y0 := g.worldToScreen(corners[i])
		x1, y1 := g.worldToScreen(corners[(i+1)%4])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, border, false)
	}
	for _, p := range g.h.Collision.Pillars {
		x, y := g.worldToScreen(Vec3{X: p.X, Z: p.Z})
		vector.FillCircle(screen, x, y, float32(p.Radius*viewScale),
			color.RGBA{R: 60, G: 64, B: 72, A: 255}, true)
	}
}

func (g *Game) drawAgent(screen *ebiten.Image, a *Agent) {
	x, y := g.worldToScreen(a.Position())
	if !a.Alive() {
		grey := color.RGBA{R: 100, G: 100, B: 100, A: 180}
		vector.StrokeLine(screen, x-4, y-4, x+4, y+4, 1, grey, false)
		vector.StrokeLine(screen, x+4, y-4, x-4, y+4, 1, grey, false)
		return
	}

	var c color.RGBA
	if a.Team() == TeamEnemy {
		c = color.RGBA{R: 220, G: 60, B: 50, A: 255}
	} else {
		c = color.RGBA{R: 70, G: 160, B: 240, A: 255}
	}
	r := float32(agentRadius * viewScale)
	vector.FillCircle(screen, x, y, r+2, c, true)
	if a.IsGroupLeader() {
		vector.StrokeCircle(screen, x, y, r+5, 1.0,
			color.RGBA{R: 255, G: 255, B: 255, A: 200}, true)
	}

	// Heading line from body yaw.
	hx := x + float32(math.Sin(a.Yaw()))*12
	hy := y + float32(math.Cos(a.Yaw()))*12
	vector.StrokeLine(screen, x, y, hx, hy, 1,
		color.RGBA{R: 255, G: 255, B: 255, A: 160}, false)

	// Health bar.
	frac := float32(clamp01(a.Health() / a.MaxHealth()))
	vector.StrokeLine(screen, x-8, y-12, x-8+16*frac, y-12, 2,
		color.RGBA{R: 90, G: 220, B: 90, A: 220}, false)
}

func (g *Game) drawPlayer(screen *ebiten.Image) {
	p := g.h.Player()
	x, y := g.worldToScreen(p.Position())
	vector.FillCircle(screen, x, y, float32(agentRadius*viewScale)+3,
		color.RGBA{R: 240, G: 220, B: 80, A: 255}, true)
}

func (g *Game) drawProjectiles(screen *ebiten.Image) {
	for _, p := range g.h.Coord.Projectiles().Active() {
		x, y := g.worldToScreen(p.Position())
		c := color.RGBA{R: 255, G: 230, B: 140, A: 255}
		if p.Team() == TeamPlayer {
			c = color.RGBA{R: 160, G: 220, B: 255, A: 255}
		}
		vector.FillCircle(screen, x, y, 2, c, false)
	}
}

func (g *Game) drawGrenades(screen *ebiten.Image) {
	for _, gr := range g.h.Coord.Grenades().Active() {
		x, y := g.worldToScreen(gr.Position())
		// Height shown as a slight radius swell.
		r := float32(2.5 + gr.Position().Y*0.6)
		vector.FillCircle(screen, x, y, r, color.RGBA{R: 80, G: 120, B: 60, A: 255}, true)
	}
}

func (g *Game) drawEffects(screen *ebiten.Image) {
	for _, t := range g.h.Effects.Tracers() {
		progress := float32(t.Age) / float32(tracerLifetime)
		a := uint8(200 * (1 - progress))
		var c color.RGBA
		if t.Team == TeamPlayer {
			c = color.RGBA{R: 140, G: 210, B: 255, A: a}
		} else {
			c = color.RGBA{R: 255, G: 200, B: 120, A: a}
		}
		x0, y0 := g.worldToScreen(t.From)
		x1, y1 := g.worldToScreen(t.To)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, c, false)
	}
	for _, f := range g.h.Effects.Flashes() {
		x, y := g.worldToScreen(f.Pos)
		a := uint8(255 * (1 - float64(f.Age)/flashLifetime))
		vector.FillCircle(screen, x, y, 3, color.RGBA{R: 255, G: 240, B: 170, A: a}, false)
	}
	for _, b := range g.h.Effects.Blasts() {
		x, y := g.worldToScreen(b.Center)
		progress := float64(b.Age) / explosionLifetime
		r := float32(b.Radius * viewScale * progress)
		a := uint8(220 * (1 - progress))
		vector.StrokeCircle(screen, x, y, r, 2, color.RGBA{R: 255, G: 160, B: 60, A: a}, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	wm := g.h.Coord.Weapons()
	cur := wm.Current()

	status := fmt.Sprintf("%s  %d/%d", cur.Kind, cur.CurrentAmmo, cur.ReserveAmmo)
	if cur.IsReloading() {
		status += "  [reloading]"
	}
	face := basicfont.Face7x13
	text.Draw(screen, status, face, 16, screenH-40, color.White)

	counts := fmt.Sprintf("enemies %d  allies %d  T=%d",
		g.h.Roster.AliveEnemies(), g.h.Roster.AliveAllies(), g.h.CurrentTick())
	text.Draw(screen, counts, face, 16, screenH-24, color.White)

	if g.notice != "" {
		text.Draw(screen, g.notice, face, 16, 24, color.White)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(int, int) (int, int) {
	return screenW, screenH
}
