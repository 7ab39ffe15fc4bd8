// Package insight runs the narrative-insight agents against a snapshot and
// merges their outputs into one bundle.
package insight

import (
	"github.com/dragon88888888888/dashboard-serenity/server/dashboard"
)

// Role identifies one insight agent. Each role is an independent
// narrative-generation task with its own snapshot slice, instructions,
// expected output shape and fallback value.
type Role string

const (
	RoleEffectiveness   Role = "effectiveness"
	RolePatterns        Role = "patterns"
	RoleCorrelations    Role = "correlations"
	RoleTrends          Role = "trends"
	RoleRecommendations Role = "recommendations"
	RoleResponses       Role = "responses"
)

// EffectivenessInsight is the effectiveness agent's structured output.
type EffectivenessInsight struct {
	Insight string  `json:"insight"`
	Score   float64 `json:"score"` // 0-100
}

// ResponseAnalysis is the response-analysis agent's structured output.
type ResponseAnalysis struct {
	CommonPatterns     []string `json:"commonPatterns"`
	KeyInsights        []string `json:"keyInsights"`
	RecommendedActions []string `json:"recommendedActions"`
}

// Bundle is the merged output of all six agents. Every field is always
// populated: with the agent's parsed output, or with its fallback value.
type Bundle struct {
	Effectiveness       EffectivenessInsight `json:"effectiveness"`
	SignificantPatterns []string             `json:"significantPatterns"`
	Correlations        []string             `json:"correlations"`
	TemporalTrends      []string             `json:"temporalTrends"`
	Recommendations     []string             `json:"recommendations"`
	ResponseAnalysis    ResponseAnalysis     `json:"responseAnalysis"`
}

// agent wires one role to its snapshot slice, instructions, parse target and
// fallback. Every agent owns exactly one Bundle field.
type agent struct {
	role         Role
	instructions string
	// maxItems is prompt guidance, not a contract: longer lists are kept and
	// only noted as a soft-compliance concern.
	maxItems int
	input    func(*dashboard.RawSnapshot) any
	parse    func(raw string, b *Bundle) error
	fallback func(b *Bundle)
}

const jsonOnlyRule = "Output only the JSON, with no surrounding prose. Write all narrative text in Spanish."

func defaultAgents() []*agent {
	return []*agent{
		{
			role: RoleEffectiveness,
			instructions: `You are a clinical analytics expert for a mental-health chat application.
Evaluate how effective the application is at reducing user anxiety, based on the
cohort improvement metric and the anxiety-usage correlation you are given.
Output schema (JSON only): {"insight": "one short paragraph", "score": number between 0 and 100}.
` + jsonOnlyRule,
			input: func(s *dashboard.RawSnapshot) any {
				return map[string]any{
					"effectiveness":           s.Effectiveness,
					"anxietyUsageCorrelation": s.AnxietyUsageCorrelation,
				}
			},
			parse: func(raw string, b *Bundle) error {
				return parsePayload(raw, &b.Effectiveness)
			},
			fallback: func(b *Bundle) {
				b.Effectiveness = EffectivenessInsight{
					Insight: "No hay suficientes datos para evaluar la efectividad.",
					Score:   0,
				}
			},
		},
		{
			role: RolePatterns,
			instructions: `You are a behavioral data analyst for a mental-health chat application.
Identify the most significant patterns in the demographic and clinical
distributions you are given.
Output schema (JSON only): a list of at most 6 short findings, e.g. ["...", "..."].
` + jsonOnlyRule,
			maxItems: 6,
			input: func(s *dashboard.RawSnapshot) any {
				return map[string]any{
					"anxietyDistribution":    s.AnxietyDistribution,
					"depressionDistribution": s.DepressionDistribution,
					"ageDistribution":        s.AgeDistribution,
					"genderDistribution":     s.GenderDistribution,
				}
			},
			parse: func(raw string, b *Bundle) error {
				return parsePayload(raw, &b.SignificantPatterns)
			},
			fallback: func(b *Bundle) {
				b.SignificantPatterns = []string{"No se identificaron patrones significativos."}
			},
		},
		{
			role: RoleCorrelations,
			instructions: `You are a behavioral data analyst for a mental-health chat application.
Describe the most relevant correlations between clinical scores and usage in
the data you are given.
Output schema (JSON only): a list of at most 6 short findings.
` + jsonOnlyRule,
			maxItems: 6,
			input: func(s *dashboard.RawSnapshot) any {
				return map[string]any{
					"anxietyUsageCorrelation": s.AnxietyUsageCorrelation,
					"chatAnalytics":           s.ChatAnalytics,
				}
			},
			parse: func(raw string, b *Bundle) error {
				return parsePayload(raw, &b.Correlations)
			},
			fallback: func(b *Bundle) {
				b.Correlations = []string{"No se identificaron correlaciones relevantes."}
			},
		},
		{
			role: RoleTrends,
			instructions: `You are a behavioral data analyst for a mental-health chat application.
Describe the most relevant temporal trends in the activity series you are
given (monthly activity, weekly messages, peak hours).
Output schema (JSON only): a list of at most 6 short findings.
` + jsonOnlyRule,
			maxItems: 6,
			input: func(s *dashboard.RawSnapshot) any {
				return map[string]any{
					"monthlyActivity": s.MonthlyActivity,
					"weeklyMessages":  s.WeeklyMessages,
					"peakUsageHours":  s.PeakUsageHours,
					"retention":       s.Retention,
				}
			},
			parse: func(raw string, b *Bundle) error {
				return parsePayload(raw, &b.TemporalTrends)
			},
			fallback: func(b *Bundle) {
				b.TemporalTrends = []string{"No se identificaron tendencias temporales."}
			},
		},
		{
			role: RoleRecommendations,
			instructions: `You are a product strategist for a mental-health chat application.
Propose concrete, actionable recommendations to improve user outcomes and
engagement, based on the aggregated statistics you are given.
Output schema (JSON only): a list of at most 6 short recommendations.
` + jsonOnlyRule,
			maxItems: 6,
			input: func(s *dashboard.RawSnapshot) any {
				return map[string]any{
					"userStats":      s.UserStats,
					"effectiveness":  s.Effectiveness,
					"retention":      s.Retention,
					"peakUsageHours": s.PeakUsageHours,
				}
			},
			parse: func(raw string, b *Bundle) error {
				return parsePayload(raw, &b.Recommendations)
			},
			fallback: func(b *Bundle) {
				b.Recommendations = []string{"No hay recomendaciones disponibles por el momento."}
			},
		},
		{
			role: RoleResponses,
			instructions: `You are a qualitative researcher for a mental-health chat application.
Analyze the open-ended test responses you are given.
Output schema (JSON only): {"commonPatterns": [at most 5 strings], "keyInsights": [at most 5 strings], "recommendedActions": [at most 5 strings]}.
` + jsonOnlyRule,
			maxItems: 5,
			input: func(s *dashboard.RawSnapshot) any {
				return map[string]any{
					"openResponses": s.OpenResponses,
				}
			},
			parse: func(raw string, b *Bundle) error {
				return parsePayload(raw, &b.ResponseAnalysis)
			},
			fallback: func(b *Bundle) {
				b.ResponseAnalysis = ResponseAnalysis{
					CommonPatterns:     []string{"Sin datos suficientes."},
					KeyInsights:        []string{"Sin datos suficientes."},
					RecommendedActions: []string{"Sin datos suficientes."},
				}
			},
		},
	}
}

// FallbackBundle returns a bundle populated with every agent's fallback
// value. It is served when insight generation is disabled.
func FallbackBundle() *Bundle {
	bundle := &Bundle{}
	for _, ag := range defaultAgents() {
		ag.fallback(bundle)
	}
	return bundle
}

// softComplianceCount reports how many items an agent produced for its list
// field, so the orchestrator can note cap overruns. Returns 0 for roles
// without a top-level list.
func (b *Bundle) softComplianceCount(role Role) int {
	switch role {
	case RolePatterns:
		return len(b.SignificantPatterns)
	case RoleCorrelations:
		return len(b.Correlations)
	case RoleTrends:
		return len(b.TemporalTrends)
	case RoleRecommendations:
		return len(b.Recommendations)
	default:
		return 0
	}
}
