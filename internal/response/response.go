package response

import "github.com/yourname/symptomtracker/internal"

type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta, Error: nil}
}

func BadRequest(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(400, msg)}
}

func InternalError(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(500, msg)}
}

func NotFound(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(404, msg)}
}

func Conflict(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(409, msg)}
}

func NewAppError(status int, msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(status, msg)}
}

// InsightSuccess and InsightFailure are the bodies of the insight endpoint,
// which does not use the APIResponse envelope.
type InsightSuccess struct {
	Insights string `json:"insights"`
}

type InsightFailure struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func FromInsightError(e *internal.InsightError) (int, InsightFailure) {
	return e.Kind.HTTPStatus(), InsightFailure{Error: e.Message, Details: e.Details}
}
