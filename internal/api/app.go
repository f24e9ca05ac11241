package api

import (
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/service"
	"github.com/yourname/symptomtracker/internal/storage"
)

type App interface {
	Logger() internal.Logger
	SymptomRepo() storage.SymptomRepository
	FieldRepo() storage.CustomFieldRepository
	Insights() *service.InsightService
}

// Application is the App wired by cmd/server.
type Application struct {
	logger   internal.Logger
	symptoms storage.SymptomRepository
	fields   storage.CustomFieldRepository
	insights *service.InsightService
}

func NewApplication(logger internal.Logger, symptoms storage.SymptomRepository, fields storage.CustomFieldRepository, insights *service.InsightService) *Application {
	return &Application{logger: logger, symptoms: symptoms, fields: fields, insights: insights}
}

func (a *Application) Logger() internal.Logger                  { return a.logger }
func (a *Application) SymptomRepo() storage.SymptomRepository   { return a.symptoms }
func (a *Application) FieldRepo() storage.CustomFieldRepository { return a.fields }
func (a *Application) Insights() *service.InsightService        { return a.insights }
