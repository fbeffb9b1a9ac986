package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/INGMEGANO/PSPVoteBackend/internal/service"
)

const QueueReconciliacion = "jobs:reconciliacion"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReconciliacionPayload carries one cedula to re-check after a bulk import.
type ReconciliacionPayload struct {
	Cedula string `json:"cedula"`
}

// Dispatcher enqueues async jobs into Redis lists. The worker pool dequeues
// them via BRPOP. Implements service.SweepEnqueuer.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

// Encolar pushes a duplicate-reconciliation job for one cedula.
func (d *Dispatcher) Encolar(ctx context.Context, cedula string) error {
	return d.enqueue(ctx, QueueReconciliacion, "reconciliacion", ReconciliacionPayload{Cedula: cedula})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers holds the concrete processors wired at the composition root.
type Handlers struct {
	Votaciones service.VotacionService
}

// StartPool launches numWorkers goroutines consuming the queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartPool(ctx context.Context, rdb *redis.Client, h *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go run(ctx, rdb, h, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func run(ctx context.Context, rdb *redis.Client, h *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueReconciliacion).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			process(ctx, h, result[0], result[1])
		}
	}
}

func process(ctx context.Context, h *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch job.Type {
	case "reconciliacion":
		var p ReconciliacionPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			log.Error().Err(err).Msg("invalid reconciliacion payload")
			return
		}
		if err := h.Votaciones.ReconciliarCedula(ctx, p.Cedula); err != nil {
			log.Error().Str("cedula", p.Cedula).Err(err).Msg("reconciliacion failed")
			return
		}
		log.Info().Str("cedula", p.Cedula).Msg("cedula reconciliada")
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
	}
}
