package insight

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	serrors "github.com/dragon88888888888/dashboard-serenity/internal/errors"
	"github.com/dragon88888888888/dashboard-serenity/server/dashboard"
)

// Generator is the narrative-generation backend consumed by the agents.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DefaultAgentTimeout bounds a single agent run when no budget is configured.
const DefaultAgentTimeout = 60 * time.Second

// Orchestrator fans the snapshot out to all six agents concurrently and joins
// their results into one fully-populated Bundle. Individual agent failures
// are replaced by the agent's fallback value; the orchestrator itself never
// fails.
type Orchestrator struct {
	generator Generator
	timeout   time.Duration
}

// NewOrchestrator creates an orchestrator with the given per-agent timeout
// budget. A non-positive timeout falls back to DefaultAgentTimeout.
func NewOrchestrator(generator Generator, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultAgentTimeout
	}
	return &Orchestrator{
		generator: generator,
		timeout:   timeout,
	}
}

// GenerateInsights runs all agents against the immutable snapshot and returns
// the merged bundle. Full join: it returns only once every agent has either
// produced output or been substituted with its fallback.
func (o *Orchestrator) GenerateInsights(ctx context.Context, snapshot *dashboard.RawSnapshot) *Bundle {
	start := time.Now()
	traceID := shortuuid.New()

	agents := defaultAgents()
	bundle := &Bundle{}
	failures := make([]error, len(agents))

	// Each agent writes exactly one Bundle field, so concurrent runs never
	// touch the same memory.
	var wg sync.WaitGroup
	for i, ag := range agents {
		wg.Add(1)
		go func(i int, ag *agent) {
			defer wg.Done()
			failures[i] = o.runAgent(ctx, traceID, ag, snapshot, bundle)
		}(i, ag)
	}
	wg.Wait()

	failed := 0
	for i, ag := range agents {
		if failures[i] == nil {
			continue
		}
		failed++
		slog.Warn("insight agent failed, using fallback",
			"trace_id", traceID,
			"agent_role", string(ag.role),
			"error_code", string(serrors.GetCodeFromError(failures[i], serrors.ErrCodeAgentOutput)),
			"error", failures[i].Error())
		ag.fallback(bundle)
	}

	slog.Info("insight generation completed",
		"trace_id", traceID,
		"agents", len(agents),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds())

	return bundle
}

func (o *Orchestrator) runAgent(ctx context.Context, traceID string, ag *agent, snapshot *dashboard.RawSnapshot, bundle *Bundle) error {
	start := time.Now()

	agentCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	input, err := json.Marshal(ag.input(snapshot))
	if err != nil {
		return serrors.AgentOutput("failed to serialize agent input", err)
	}

	response, err := o.generator.Generate(agentCtx, ag.instructions, string(input))
	if err != nil {
		if agentCtx.Err() == context.DeadlineExceeded {
			return serrors.Timeout("agent run exceeded its budget")
		}
		return err
	}

	if err := ag.parse(response, bundle); err != nil {
		return err
	}

	if n := bundle.softComplianceCount(ag.role); ag.maxItems > 0 && n > ag.maxItems {
		slog.Debug("agent exceeded item cap",
			"trace_id", traceID,
			"agent_role", string(ag.role),
			"items", n,
			"cap", ag.maxItems)
	}

	slog.Debug("insight agent completed",
		"trace_id", traceID,
		"agent_role", string(ag.role),
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}
