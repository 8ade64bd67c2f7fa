package loop

import (
	"fmt"

	"github.com/tomz197/streetrunner/internal/draw"
	"github.com/tomz197/streetrunner/internal/hud"
	"github.com/tomz197/streetrunner/internal/state"
)

var (
	styleTitle = draw.Style{Fg: draw.DefaultPalette.Color("title"), Bold: true}
	styleText  = draw.Style{Fg: draw.DefaultPalette.Color("hud")}
	styleHUD   = draw.Style{Fg: draw.DefaultPalette.Color("score"), Bold: true}
	styleWarn  = draw.Style{Fg: draw.DefaultPalette.Color("warning"), Bold: true}
	styleCombo = draw.Style{Fg: draw.DefaultPalette.Color("combo"), Bold: true}
)

// drawUI draws the overlay for the current phase.
func (s *Session) drawUI(surf draw.Surface) {
	v := s.hud.View()
	switch s.game.State().Phase() {
	case state.PhaseMenu:
		drawStartScreen(surf, v)
	case state.PhasePlaying:
		drawPlayingHUD(surf, v)
	case state.PhaseGameOver:
		drawGameOverScreen(surf, v, s.pilot != nil)
	}
	if s.pilot != nil {
		draw.RightText(surf, 0, 1, "DEMO", styleWarn)
	}
	if s.idleWarn {
		_, h := surf.Size()
		draw.CenterText(surf, h-2, "Idle - press any key to stay connected", styleWarn)
	}
}

// drawStartScreen draws the title screen.
func drawStartScreen(surf draw.Surface, v hud.View) {
	_, h := surf.Size()
	cy := h / 2

	draw.CenterText(surf, cy-3, "S T R E E T   R U N N E R", styleTitle)
	draw.CenterText(surf, cy, "Press ENTER or SPACE to start", styleText)
	if v.BestScore > 0 {
		draw.CenterText(surf, cy+1, fmt.Sprintf("Best: %d", v.BestScore), styleText)
	}
	draw.CenterText(surf, cy+4, "A/D or Arrows to change lane, SPACE or W to throw, M to mute, Q to quit", styleText)
}

// drawPlayingHUD draws score and combo on the left, lives on the right.
func drawPlayingHUD(surf draw.Surface, v hud.View) {
	left, right := v.Status()
	st := styleHUD
	if v.Combo >= 2 {
		st = styleCombo
	}
	draw.Text(surf, 2, 0, left, st)
	draw.RightText(surf, 0, 2, right, styleHUD)
}

// drawGameOverScreen draws the final score and the restart prompt.
func drawGameOverScreen(surf draw.Surface, v hud.View, demo bool) {
	w, h := surf.Size()
	cx, cy := w/2, h/2

	box := 44
	draw.Fill(surf, cx-box/2, cy-4, box, 9, ' ', draw.Style{})
	draw.Frame(surf, cx-box/2, cy-4, box, 9, styleText)

	draw.CenterText(surf, cy-2, "GAME OVER", styleWarn)
	draw.CenterText(surf, cy, fmt.Sprintf("Score: %d   Best: %d", v.Score, v.BestScore), styleHUD)
	draw.CenterText(surf, cy+1, fmt.Sprintf("Best combo: %d", v.BestCombo), styleText)
	if !demo {
		draw.CenterText(surf, cy+3, "Press ENTER or R to restart, Q to quit", styleText)
	}
}
