package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/symptomtracker/internal/service"
)

func PostCustomField(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.CustomFieldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request: name required")
			return
		}

		if err := service.ValidateCustomFieldRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Custom field validation failed")
			return
		}

		def, err := service.CreateCustomField(c.Request.Context(), app.FieldRepo(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to save custom field")
			return
		}

		HandleCreated(c, app.Logger(), def)
	}
}

func GetCustomFields(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		defs, err := app.FieldRepo().ListFields(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch custom fields")
			return
		}
		HandleSuccess(c, app.Logger(), defs, nil)
	}
}

// DeleteCustomField removes the definition. Values already stored under that
// name on existing records are not purged.
func DeleteCustomField(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if err := app.FieldRepo().DeleteField(c.Request.Context(), user.ID, c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to delete custom field")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": c.Param("id")})
	}
}
