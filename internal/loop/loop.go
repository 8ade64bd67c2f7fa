// Package loop runs the game: the orchestrator that advances the
// simulation, the session that wires it to presentation, and the fixed-rate
// frame loop that drives a terminal front-end.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/tomz197/streetrunner/internal/draw"
	"github.com/tomz197/streetrunner/internal/render"
)

// Run drives s on fe at the configured frame rate with the
// Input -> Update -> Draw cycle. It returns when ctx is done, the player
// quits, the session idles out or the input source closes.
func Run(ctx context.Context, fe Frontend, s *Session) error {
	fps := s.game.tuning.Frame.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	targetFrameTime := time.Second / time.Duration(fps)
	lastTime := time.Now()

	for {
		if ctx.Err() != nil {
			return nil
		}
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// ===== INPUT PHASE =====
		if !fe.Poll(s.keys) {
			s.log.Debug("input closed")
			return nil
		}

		// ===== UPDATE PHASE =====
		if s.Step(delta) {
			return nil
		}

		// ===== DRAW PHASE =====
		surf := fe.Surface()
		s.Draw(surf)
		if err := surf.Flush(); err != nil {
			return fmt.Errorf("flush frame: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < targetFrameTime {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(targetFrameTime - elapsed):
			}
		}
	}
}

// Draw renders the world, the effects and the screen for the current phase.
func (s *Session) Draw(surf draw.Surface) {
	surf.Clear()
	s.graph.Resolve()
	s.renderer.Draw(surf, render.Frame{
		Graph:         s.graph,
		Camera:        s.game.Camera(),
		Effects:       s.fx,
		PathHalfWidth: s.game.tuning.Player.PathHalfWidth,
		FarPlane:      s.game.tuning.World.SpawnDistance,
	})
	s.drawUI(surf)
}
