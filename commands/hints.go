package commands

import (
	"math/rand/v2"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Hints surfaces occasional tips after successful commands.
type Hints struct {
	mu          sync.Mutex
	lastHint    time.Time
	cooldownDur time.Duration
	hintChance  float64
	hints       []string
}

func NewHints() *Hints {
	return &Hints{
		cooldownDur: 5 * time.Minute,
		hintChance:  0.15, // 15% chance
		hints: []string{
			"Tip: i <number> expands an artist or album from the last listing",
			"Tip: q <number> queues a song or a whole album",
			"Tip: p s shuffles the queue before playing it",
			"Tip: w and r save and restore the queue between sessions",
			"Tip: quitting mpv mid-queue resumes from the same song next time",
			"Tip: l <number> shows lyrics for a song in the last listing",
			"Tip: g asks for suggestions based on your play history",
			"Tip: hi lists what you played recently",
			"Tip: n and b page through long result lists",
		},
	}
}

// ShouldShowHint rolls for a hint, honoring the cooldown.
func (h *Hints) ShouldShowHint() (string, bool) {
	if rand.Float64() > h.hintChance {
		return "", false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.lastHint.IsZero() && time.Since(h.lastHint) < h.cooldownDur {
		return "", false
	}

	hint := h.hints[rand.IntN(len(h.hints))]
	h.lastHint = time.Now()

	log.Debugf("Showing hint: %s", hint)
	return hint, true
}

// ClearCooldown resets the cooldown (useful for testing).
func (h *Hints) ClearCooldown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastHint = time.Time{}
}
