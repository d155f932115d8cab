package services

import (
	"math/rand"
	"sync"
	"time"
)

// Scorer is the pluggable scoring function applied to each submission. Real
// quality scoring (jury votes, vision models) is deliberately external; the
// workers only care that something turns an image into an integer.
type Scorer interface {
	Score(imagePath string) (int, error)
}

// RandomScorer assigns a uniform score in [10, 100]. It exists so the
// contest loop is demonstrable before a real scoring collaborator is wired
// in.
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomScorer() *RandomScorer {
	return &RandomScorer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *RandomScorer) Score(string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 10 + s.rng.Intn(91), nil
}
