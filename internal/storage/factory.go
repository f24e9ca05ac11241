package storage

import "github.com/yourname/symptomtracker/internal"

// Backend is implemented by both storage engines.
type Backend interface {
	SymptomRepository
	CustomFieldRepository
	Close() error
}

func NewFileRepositories(symptomFile, fieldsFile string, logger internal.Logger) (Backend, error) {
	storage, err := NewFileStorage(symptomFile, fieldsFile, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (Backend, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

// Open picks the backend named by dbType ("file" or "postgres").
func Open(dbType, dsn, symptomFile, fieldsFile string, logger internal.Logger) (Backend, error) {
	if dbType == "postgres" {
		return NewPostgresRepositories(dsn, logger)
	}
	return NewFileRepositories(symptomFile, fieldsFile, logger)
}
