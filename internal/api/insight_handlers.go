package api

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/response"
	"github.com/yourname/symptomtracker/internal/service"
)

// PostInsights checks the completion credential before reading the body, so a
// misconfigured server never parses or forwards symptom data.
func PostInsights(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("request_id")
		svc := app.Insights()

		if err := svc.CheckConfigured(); err != nil {
			respondInsightError(c, app.Logger(), err)
			return
		}

		var req service.InsightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if errors.Is(err, io.EOF) || c.Request.ContentLength == 0 {
				err = &internal.InsightError{Kind: internal.KindValidation, Message: service.MsgNoSymptoms}
			} else {
				err = &internal.InsightError{Kind: internal.KindValidation, Message: "Invalid request body", Details: err.Error(), Err: err}
			}
			respondInsightError(c, app.Logger(), err)
			return
		}
		app.Logger().Infof("[request_id=%s] insight request with %d symptoms", requestID, len(req.Symptoms))

		// The completion call is not aborted if the caller goes away.
		ctx := context.WithoutCancel(c.Request.Context())
		text, err := svc.Generate(ctx, req.Symptoms)
		if err != nil {
			respondInsightError(c, app.Logger(), err)
			return
		}

		app.Logger().Infof("[request_id=%s] insights generated (%d bytes)", requestID, len(text))
		c.JSON(200, response.InsightSuccess{Insights: text})
	}
}

func respondInsightError(c *gin.Context, logger internal.Logger, err error) {
	var ie *internal.InsightError
	if !errors.As(err, &ie) {
		ie = service.MapCompletionError(err)
	}
	logger.Errorf("[request_id=%s] insight request failed (%s): %v", c.GetString("request_id"), ie.Kind, err)
	status, body := response.FromInsightError(ie)
	c.JSON(status, body)
}
