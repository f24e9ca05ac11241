package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/llm"
)

type fakeCompleter struct {
	configured bool
	text       string
	err        error
	calls      int
	last       llm.CompletionRequest
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.calls++
	f.last = req
	return f.text, f.err
}

func TestFormatSymptomLine_Defaults(t *testing.T) {
	line := FormatSymptomLine(InsightSymptom{Name: "Headache", Severity: "4", Date: "2024-01-01"})
	assert.Equal(t, "- Headache (Severity: 4/5, Category: General, Date: 1/1/2024 Not specified, Notes: None, Food/Action: None)", line)
}

func TestFormatSymptomLine_AllFields(t *testing.T) {
	line := FormatSymptomLine(InsightSymptom{
		Name:       "Nausea",
		Severity:   "2",
		Category:   "Digestive",
		Date:       "2024-11-23",
		Time:       "08:30",
		Notes:      "mild",
		FoodAction: "coffee",
	})
	assert.Equal(t, "- Nausea (Severity: 2/5, Category: Digestive, Date: 11/23/2024 08:30, Notes: mild, Food/Action: coffee)", line)
}

func TestFormatPromptDate(t *testing.T) {
	assert.Equal(t, "3/9/2024", FormatPromptDate("2024-03-09"))
	assert.Equal(t, "12/31/2023", FormatPromptDate("2023-12-31T22:00:00Z"))
	assert.Equal(t, "Invalid Date", FormatPromptDate(""))
	assert.Equal(t, "Invalid Date", FormatPromptDate("yesterday"))
}

func TestBuildInsightPrompt_OneLinePerRecordInOrder(t *testing.T) {
	symptoms := []InsightSymptom{
		{Name: "Headache", Severity: "4", Date: "2024-01-01"},
		{Name: "Fatigue", Severity: "2", Date: "2024-01-02", Category: "Energy"},
		{Name: "Headache", Severity: "5", Date: "2024-01-03", Notes: "bright light"},
	}
	prompt := BuildInsightPrompt(symptoms)

	assert.Contains(t, prompt, "TOTAL SYMPTOMS: 3")
	var lines []string
	for _, l := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(l, "- ") && strings.Contains(l, "(Severity:") {
			lines = append(lines, l)
		}
	}
	require.Len(t, lines, 3)
	for i, s := range symptoms {
		assert.Equal(t, FormatSymptomLine(s), lines[i])
	}
	for _, section := range []string{"Overall Health Assessment", "Pattern Detection", "Risk Assessment", "Personalized Recommendations", "Data Insights"} {
		assert.Contains(t, prompt, section)
	}
	assert.Contains(t, prompt, "rather than diagnosis")
}

func TestBuildInsightPrompt_SingleRecordScenario(t *testing.T) {
	prompt := BuildInsightPrompt([]InsightSymptom{{Name: "Headache", Severity: "4", Date: "2024-01-01"}})
	assert.Contains(t, prompt, "- Headache (Severity: 4/5, Category: General, Date: 1/1/2024 Not specified, Notes: None, Food/Action: None)")
	assert.Contains(t, prompt, "TOTAL SYMPTOMS: 1")
}

func TestGenerate_Success(t *testing.T) {
	fc := &fakeCompleter{configured: true, text: "## Analysis\nAll steady."}
	svc := NewInsightService(fc, 1500, 0.3, internal.NewNopLogger())

	text, err := svc.Generate(context.Background(), []InsightSymptom{{Name: "Headache", Severity: "4", Date: "2024-01-01"}})
	require.NoError(t, err)
	assert.Equal(t, "## Analysis\nAll steady.", text)
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, 1500, fc.last.MaxTokens)
	assert.InDelta(t, 0.3, fc.last.Temperature, 1e-9)
	assert.Contains(t, fc.last.System, "recommending medical consultation")
	assert.Contains(t, fc.last.User, "TOTAL SYMPTOMS: 1")
}

func TestGenerate_NotConfiguredNeverCalls(t *testing.T) {
	fc := &fakeCompleter{configured: false}
	svc := NewInsightService(fc, 1500, 0.3, internal.NewNopLogger())

	_, err := svc.Generate(context.Background(), []InsightSymptom{{Name: "x"}})
	var ie *internal.InsightError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, internal.KindConfiguration, ie.Kind)
	assert.Equal(t, MsgNotConfigured, ie.Message)
	assert.Equal(t, 0, fc.calls)
}

func TestGenerate_EmptyNeverCalls(t *testing.T) {
	fc := &fakeCompleter{configured: true}
	svc := NewInsightService(fc, 1500, 0.3, internal.NewNopLogger())

	_, err := svc.Generate(context.Background(), nil)
	var ie *internal.InsightError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, internal.KindValidation, ie.Kind)
	assert.Equal(t, 400, ie.Kind.HTTPStatus())
	assert.Equal(t, 0, fc.calls)
}

func TestMapCompletionError(t *testing.T) {
	quota := MapCompletionError(&llm.ProviderError{Provider: "openai", Kind: internal.KindRateLimit, StatusCode: 429, Code: "insufficient_quota"})
	assert.Equal(t, internal.KindRateLimit, quota.Kind)
	assert.Equal(t, 429, quota.Kind.HTTPStatus())
	assert.Contains(t, quota.Message, "quota")
	assert.Empty(t, quota.Details)

	auth := MapCompletionError(&llm.ProviderError{Provider: "openai", Kind: internal.KindAuthentication, StatusCode: 401})
	assert.Equal(t, internal.KindAuthentication, auth.Kind)
	assert.Equal(t, 500, auth.Kind.HTTPStatus())
	assert.Equal(t, MsgAuthFailed, auth.Message)

	other := MapCompletionError(errors.New("connection reset by peer"))
	assert.Equal(t, internal.KindTransientExternal, other.Kind)
	assert.Equal(t, MsgInsightFailed, other.Message)
	assert.Equal(t, "connection reset by peer", other.Details)
	assert.True(t, other.Kind.Retryable())
}
