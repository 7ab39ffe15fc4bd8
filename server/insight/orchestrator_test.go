package insight

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dragon88888888888/dashboard-serenity/server/dashboard"
)

type generatorFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// roleResponses answers each agent with a schema-correct payload, keyed off
// the distinctive opening of its instructions.
func roleResponses(ctx context.Context, systemPrompt, _ string) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "clinical analytics expert"):
		return `{"insight": "la ansiedad baja con el uso sostenido", "score": 68}`, nil
	case strings.Contains(systemPrompt, "qualitative researcher"):
		return `{"commonPatterns": ["insomnio"], "keyInsights": ["estres laboral"], "recommendedActions": ["ejercicios de respiracion"]}`, nil
	default:
		return `["hallazgo uno", "hallazgo dos"]`, nil
	}
}

func testSnapshot() *dashboard.RawSnapshot {
	return &dashboard.RawSnapshot{
		UserStats:     dashboard.UserStats{TotalUsers: 10, TotalTests: 25, TotalMessages: 400},
		OpenResponses: []string{"me cuesta dormir"},
	}
}

func TestGenerateInsightsAllSucceed(t *testing.T) {
	o := NewOrchestrator(generatorFunc(roleResponses), time.Second)

	bundle := o.GenerateInsights(context.Background(), testSnapshot())

	require.Equal(t, "la ansiedad baja con el uso sostenido", bundle.Effectiveness.Insight)
	require.Equal(t, 68.0, bundle.Effectiveness.Score)
	require.Equal(t, []string{"hallazgo uno", "hallazgo dos"}, bundle.SignificantPatterns)
	require.Equal(t, []string{"hallazgo uno", "hallazgo dos"}, bundle.Correlations)
	require.Equal(t, []string{"hallazgo uno", "hallazgo dos"}, bundle.TemporalTrends)
	require.Equal(t, []string{"hallazgo uno", "hallazgo dos"}, bundle.Recommendations)
	require.Equal(t, []string{"insomnio"}, bundle.ResponseAnalysis.CommonPatterns)
}

func TestGenerateInsightsPartialFailure(t *testing.T) {
	// The strategist and researcher agents fail; the other four succeed.
	gen := generatorFunc(func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		if strings.Contains(systemPrompt, "product strategist") || strings.Contains(systemPrompt, "qualitative researcher") {
			return "no soy capaz de responder en JSON", nil
		}
		return roleResponses(ctx, systemPrompt, userPrompt)
	})
	o := NewOrchestrator(gen, time.Second)

	bundle := o.GenerateInsights(context.Background(), testSnapshot())

	// Failed agents carry their fallback values.
	require.Equal(t, []string{"No hay recomendaciones disponibles por el momento."}, bundle.Recommendations)
	require.Equal(t, []string{"Sin datos suficientes."}, bundle.ResponseAnalysis.KeyInsights)

	// The rest of the bundle is untouched by the failures.
	require.Equal(t, 68.0, bundle.Effectiveness.Score)
	require.Equal(t, []string{"hallazgo uno", "hallazgo dos"}, bundle.SignificantPatterns)
	require.Equal(t, []string{"hallazgo uno", "hallazgo dos"}, bundle.TemporalTrends)
}

func TestGenerateInsightsAllFail(t *testing.T) {
	gen := generatorFunc(func(context.Context, string, string) (string, error) {
		return "", context.Canceled
	})
	o := NewOrchestrator(gen, time.Second)

	bundle := o.GenerateInsights(context.Background(), testSnapshot())

	// Every field holds its fallback; the orchestrator itself never fails.
	require.Equal(t, FallbackBundle(), bundle)
}

func TestGenerateInsightsFencedOutput(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		if strings.Contains(systemPrompt, "clinical analytics expert") {
			return "```json\n{\"insight\": \"mejora\", \"score\": 80}\n```", nil
		}
		return roleResponses(ctx, systemPrompt, userPrompt)
	})
	o := NewOrchestrator(gen, time.Second)

	bundle := o.GenerateInsights(context.Background(), testSnapshot())
	require.Equal(t, "mejora", bundle.Effectiveness.Insight)
	require.Equal(t, 80.0, bundle.Effectiveness.Score)
}

func TestGenerateInsightsTimeout(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	o := NewOrchestrator(gen, 50*time.Millisecond)

	start := time.Now()
	bundle := o.GenerateInsights(context.Background(), testSnapshot())

	// Agents run concurrently, so the whole join stays near one budget.
	require.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, FallbackBundle(), bundle)
}

func TestFallbackBundleComplete(t *testing.T) {
	bundle := FallbackBundle()

	require.NotEmpty(t, bundle.Effectiveness.Insight)
	require.NotEmpty(t, bundle.SignificantPatterns)
	require.NotEmpty(t, bundle.Correlations)
	require.NotEmpty(t, bundle.TemporalTrends)
	require.NotEmpty(t, bundle.Recommendations)
	require.NotEmpty(t, bundle.ResponseAnalysis.CommonPatterns)
	require.NotEmpty(t, bundle.ResponseAnalysis.KeyInsights)
	require.NotEmpty(t, bundle.ResponseAnalysis.RecommendedActions)
}

func TestNewOrchestratorDefaultTimeout(t *testing.T) {
	o := NewOrchestrator(generatorFunc(roleResponses), 0)
	require.Equal(t, DefaultAgentTimeout, o.timeout)
}
