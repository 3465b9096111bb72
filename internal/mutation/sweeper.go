/*-------------------------------------------------------------------------
 *
 * sweeper.go
 *    Scheduled expiration sweep for pending operations
 *
 * Periodically flips PENDING rows past their TTL to EXPIRED in bulk.
 * The sweep never touches non-PENDING rows; the store query is
 * conditioned on status, so it cannot race user confirmations into an
 * inconsistent state.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/sweeper.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"context"
	"time"

	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/metrics"
)

/* Sweeper expires overdue pending operations on an interval */
type Sweeper struct {
	queries  *db.Queries
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

/* NewSweeper creates an expiration sweeper */
func NewSweeper(queries *db.Queries, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		queries:  queries,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

/* Start begins the background sweep */
func (s *Sweeper) Start() {
	go s.run()
}

/* Stop stops the sweep and waits for the current tick to finish */
func (s *Sweeper) Stop() {
	s.cancel()
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	defer func() {
		if r := recover(); r != nil {
			metrics.ErrorWithContext(s.ctx, "Expiration sweep panicked", nil, map[string]interface{}{
				"panic": r,
			})
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	expired, err := s.queries.ExpireOverdueOperations(ctx)
	if err != nil {
		metrics.ErrorWithContext(ctx, "Expiration sweep failed", err, nil)
		return
	}

	if expired > 0 {
		metrics.RecordOperationsExpired(int(expired))
		metrics.InfoWithContext(ctx, "Expired pending operations", map[string]interface{}{
			"expired": expired,
		})
	}
}
