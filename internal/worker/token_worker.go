package worker

import (
	"context"
	"log"
	"time"

	"cavea/internal/repository"
)

// TokenWorker prunes access tokens that have been idle longer than maxIdle,
// so abandoned sessions do not accumulate forever.
type TokenWorker struct {
	tokens   repository.TokenRepository
	interval time.Duration
	maxIdle  time.Duration
	stopChan chan struct{}
	running  bool
}

func NewTokenWorker(tokens repository.TokenRepository, interval, maxIdle time.Duration) *TokenWorker {
	return &TokenWorker{
		tokens:   tokens,
		interval: interval,
		maxIdle:  maxIdle,
		stopChan: make(chan struct{}),
	}
}

func (w *TokenWorker) Start() {
	if w.running {
		return
	}

	w.running = true
	log.Printf("Token Worker started with interval %v", w.interval)

	w.prune()
	go w.run()
}

func (w *TokenWorker) Stop() {
	if !w.running {
		return
	}

	close(w.stopChan)
	w.running = false
	log.Println("Token Worker stopped")
}

func (w *TokenWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.prune()
		case <-w.stopChan:
			return
		}
	}
}

func (w *TokenWorker) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.maxIdle)
	pruned, err := w.tokens.DeleteIdleSince(ctx, cutoff)
	if err != nil {
		log.Printf("Token Worker error: %v", err)
		return
	}
	if pruned > 0 {
		log.Printf("Token Worker: pruned %d idle tokens", pruned)
	}
}
