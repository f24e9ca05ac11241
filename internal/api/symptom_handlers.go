package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/service"
	"github.com/yourname/symptomtracker/internal/storage"
)

func PostSymptom(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var body service.SymptomRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateSymptomRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		rec, err := service.CreateSymptom(c.Request.Context(), app.SymptomRepo(), app.FieldRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to save symptom")
			return
		}

		HandleCreated(c, app.Logger(), rec)
	}
}

func GetSymptoms(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		rng, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid date range")
			return
		}

		recs, err := app.SymptomRepo().ListSymptoms(c.Request.Context(), user.ID, rng)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch symptoms")
			return
		}

		service.SortByDateDesc(recs)
		HandleSuccess(c, app.Logger(), recs, map[string]any{"count": len(recs)})
	}
}

func PatchSymptom(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var patch internal.SymptomPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateSymptomPatch(&patch); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		rec, err := service.UpdateSymptom(c.Request.Context(), app.SymptomRepo(), app.FieldRepo(), user, c.Param("id"), &patch)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to update symptom")
			return
		}

		HandleSuccess(c, app.Logger(), rec, nil)
	}
}

func DeleteSymptom(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		if err := app.SymptomRepo().DeleteSymptom(c.Request.Context(), user.ID, c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to delete symptom")
			return
		}

		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": c.Param("id")})
	}
}

func GetSymptomStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		period, err := strconv.Atoi(c.DefaultQuery("period", "7"))
		if err != nil || !service.ValidPeriod(period) {
			HandleError(c, app.Logger(), service.ErrInvalid, 400, "period must be 7, 30 or 0")
			return
		}

		recs, err := app.SymptomRepo().ListSymptoms(c.Request.Context(), user.ID, storage.DateRange{})
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch symptoms for stats")
			return
		}

		HandleSuccess(c, app.Logger(), service.CalculateProgress(recs, period, time.Now()), nil)
	}
}
