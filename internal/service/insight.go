package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/llm"
)

const (
	MsgNotConfigured = "AI service is not configured. Please check your environment variables."
	MsgNoSymptoms    = "No symptoms data provided"
	MsgQuotaExceeded = "AI service quota exceeded. Please try again later."
	MsgAuthFailed    = "AI service configuration error."
	MsgInsightFailed = "Failed to generate AI insights. Please try again."
)

const insightSystemPrompt = "You are a helpful medical AI assistant that analyzes symptom patterns and provides health insights. Always be thorough, professional, and prioritize user safety by recommending medical consultation when appropriate."

const insightPromptTemplate = `You are a medical AI assistant analyzing symptom patterns. Please analyze the following user symptoms and provide detailed insights, pattern detection, and health recommendations.

SYMPTOM DATA:
%s

TOTAL SYMPTOMS: %d

Please provide a comprehensive analysis including:

1. **Overall Health Assessment**
   - Evaluate the severity patterns
   - Identify any concerning trends
   - Assess frequency and timing patterns

2. **Pattern Detection**
   - Identify recurring symptoms
   - Analyze potential triggers (food, activities, time of day)
   - Look for correlations between different symptoms
   - Detect seasonal or cyclical patterns

3. **Risk Assessment**
   - Identify any symptoms that may require immediate medical attention
   - Flag patterns that could indicate underlying conditions
   - Assess the overall health trajectory

4. **Personalized Recommendations**
   - Suggest lifestyle modifications
   - Recommend tracking improvements
   - Provide preventive measures
   - Suggest when to consult healthcare providers

5. **Data Insights**
   - Highlight the most significant findings
   - Identify data gaps that could improve analysis
   - Suggest additional tracking metrics

IMPORTANT GUIDELINES:
- Be thorough but concise
- Use clear, non-medical jargon language
- Focus on patterns and trends rather than diagnosis
- Always recommend consulting healthcare providers for serious concerns
- Provide actionable, practical advice
- Consider the user's symptom tracking habits

Format your response as a well-structured analysis with clear sections and bullet points where appropriate.`

// InsightSymptom is the subset of a symptom record the insight prompt reads.
// Severity accepts a JSON number or numeric string.
type InsightSymptom struct {
	Name       string      `json:"name"`
	Severity   json.Number `json:"severity"`
	Category   string      `json:"category,omitempty"`
	Date       string      `json:"date,omitempty"`
	Time       string      `json:"time,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	FoodAction string      `json:"foodAction,omitempty"`
}

type InsightRequest struct {
	Symptoms []InsightSymptom `json:"symptoms"`
}

// InsightSymptomFromRecord narrows a stored record to the prompt fields.
func InsightSymptomFromRecord(r internal.SymptomRecord) InsightSymptom {
	return InsightSymptom{
		Name:       r.Name,
		Severity:   json.Number(fmt.Sprint(r.Severity)),
		Category:   r.Category,
		Date:       r.Date,
		Time:       r.Time,
		Notes:      r.Notes,
		FoodAction: r.FoodAction,
	}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// FormatPromptDate renders a record date as M/D/YYYY.
func FormatPromptDate(date string) string {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return "Invalid Date"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// FormatSymptomLine renders one prompt line, substituting defaults for absent
// optional fields.
func FormatSymptomLine(s InsightSymptom) string {
	return fmt.Sprintf("- %s (Severity: %s/5, Category: %s, Date: %s %s, Notes: %s, Food/Action: %s)",
		s.Name,
		orDefault(s.Severity.String(), "?"),
		orDefault(s.Category, "General"),
		FormatPromptDate(s.Date),
		orDefault(s.Time, "Not specified"),
		orDefault(s.Notes, "None"),
		orDefault(s.FoodAction, "None"),
	)
}

// BuildInsightPrompt embeds one line per symptom, in input order, in the
// fixed analysis template.
func BuildInsightPrompt(symptoms []InsightSymptom) string {
	lines := make([]string, len(symptoms))
	for i, s := range symptoms {
		lines[i] = FormatSymptomLine(s)
	}
	return fmt.Sprintf(insightPromptTemplate, strings.Join(lines, "\n"), len(symptoms))
}

type InsightService struct {
	completer   llm.Completer
	maxTokens   int
	temperature float64
	logger      internal.Logger
}

func NewInsightService(completer llm.Completer, maxTokens int, temperature float64, logger internal.Logger) *InsightService {
	return &InsightService{completer: completer, maxTokens: maxTokens, temperature: temperature, logger: logger}
}

// CheckConfigured fails with a configuration error when no completion
// credential is available.
func (s *InsightService) CheckConfigured() error {
	if s.completer == nil || !s.completer.Configured() {
		return &internal.InsightError{Kind: internal.KindConfiguration, Message: MsgNotConfigured}
	}
	return nil
}

// Generate returns the model's analysis verbatim. Every failure is an
// *internal.InsightError.
func (s *InsightService) Generate(ctx context.Context, symptoms []InsightSymptom) (string, error) {
	if err := s.CheckConfigured(); err != nil {
		return "", err
	}
	if len(symptoms) == 0 {
		return "", &internal.InsightError{Kind: internal.KindValidation, Message: MsgNoSymptoms}
	}

	prompt := BuildInsightPrompt(symptoms)
	s.logger.Debugf("insight prompt built for %d symptoms (%d bytes)", len(symptoms), len(prompt))

	text, err := s.completer.Complete(ctx, llm.CompletionRequest{
		System:      insightSystemPrompt,
		User:        prompt,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", MapCompletionError(err)
	}
	return text, nil
}

// MapCompletionError converts a completer failure into the user-facing
// insight error.
func MapCompletionError(err error) *internal.InsightError {
	if errors.Is(err, llm.ErrNotConfigured) {
		return &internal.InsightError{Kind: internal.KindConfiguration, Message: MsgNotConfigured, Err: err}
	}
	switch kind := internal.KindOf(err); kind {
	case internal.KindRateLimit:
		return &internal.InsightError{Kind: kind, Message: MsgQuotaExceeded, Err: err}
	case internal.KindAuthentication:
		return &internal.InsightError{Kind: kind, Message: MsgAuthFailed, Err: err}
	default:
		return &internal.InsightError{Kind: internal.KindTransientExternal, Message: MsgInsightFailed, Details: err.Error(), Err: err}
	}
}
