package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yourname/symptomtracker/internal"
)

type FileStorage struct {
	symptoms     map[string]*internal.SymptomRecord                    // id -> record
	userIndex    map[string][]*internal.SymptomRecord                  // userID -> records (date descending)
	fields       map[string]map[string]*internal.CustomFieldDefinition // userID -> name -> definition
	mu           sync.RWMutex
	symptomFile  string
	fieldsFile   string
	saveRecsChan chan struct{}
	saveDefsChan chan struct{}
	shutdownChan chan struct{}
	closeOnce    sync.Once
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(symptomFile, fieldsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		symptoms:     make(map[string]*internal.SymptomRecord),
		userIndex:    make(map[string][]*internal.SymptomRecord),
		fields:       make(map[string]map[string]*internal.CustomFieldDefinition),
		symptomFile:  symptomFile,
		fieldsFile:   fieldsFile,
		saveRecsChan: make(chan struct{}, 1),
		saveDefsChan: make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}

	for _, f := range []string{symptomFile, fieldsFile} {
		if dir := filepath.Dir(f); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	if err := s.loadSymptoms(); err != nil {
		logger.Errorf("storage: failed to load symptoms: %v", err)
		return nil, err
	}
	if err := s.loadFields(); err != nil {
		logger.Errorf("storage: failed to load custom fields: %v", err)
		return nil, err
	}

	go s.saveWorker(s.saveRecsChan, "symptoms", s.saveSymptoms)
	go s.saveWorker(s.saveDefsChan, "custom fields", s.saveFields)

	return s, nil
}

// storedRecord is the on-disk shape; custom field values lose their type tag.
type storedRecord struct {
	internal.SymptomRecord
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

func (s *FileStorage) loadSymptoms() error {
	var recs []storedRecord
	if err := readJSONFile(s.symptomFile, &recs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range recs {
		r := recs[i].SymptomRecord
		r.CustomFields = internal.CustomFieldsFromStrings(recs[i].CustomFields)
		s.symptoms[r.ID] = &r
		s.userIndex[r.UserID] = append(s.userIndex[r.UserID], &r)
	}
	for userID := range s.userIndex {
		sortByDateDesc(s.userIndex[userID])
	}
	return nil
}

func (s *FileStorage) loadFields() error {
	var defs []*internal.CustomFieldDefinition
	if err := readJSONFile(s.fieldsFile, &defs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range defs {
		if s.fields[d.UserID] == nil {
			s.fields[d.UserID] = make(map[string]*internal.CustomFieldDefinition)
		}
		s.fields[d.UserID][d.Name] = d
	}
	return nil
}

func readJSONFile(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveSymptoms() error {
	s.mu.RLock()
	recs := make([]storedRecord, 0, len(s.symptoms))
	for _, r := range s.symptoms {
		recs = append(recs, storedRecord{SymptomRecord: *r, CustomFields: r.CustomFields.Strings()})
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return atomicWriteFileJSON(s.symptomFile, recs)
}

func (s *FileStorage) saveFields() error {
	s.mu.RLock()
	defs := make([]*internal.CustomFieldDefinition, 0)
	for _, byName := range s.fields {
		for _, d := range byName {
			defs = append(defs, d)
		}
	}
	s.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return atomicWriteFileJSON(s.fieldsFile, defs)
}

// saveWorker coalesces bursts of writes into one disk flush per saveDelay.
func (s *FileStorage) saveWorker(signal <-chan struct{}, what string, save func() error) {
	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", what, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the save workers and flushes both files synchronously.
func (s *FileStorage) Close() error {
	s.closeOnce.Do(func() { close(s.shutdownChan) })

	if err := s.saveSymptoms(); err != nil {
		return err
	}
	return s.saveFields()
}

func sortByDateDesc(recs []*internal.SymptomRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Date != recs[j].Date {
			return recs[i].Date > recs[j].Date
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}

func cloneRecord(r *internal.SymptomRecord) internal.SymptomRecord {
	out := *r
	if r.CustomFields != nil {
		out.CustomFields = make(internal.CustomFields, len(r.CustomFields))
		for k, v := range r.CustomFields {
			out.CustomFields[k] = v
		}
	}
	return out
}

// --- SymptomRepository ---
func (s *FileStorage) InsertSymptom(ctx context.Context, rec *internal.SymptomRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.symptoms[rec.ID]; ok {
		return ErrConflict
	}
	stored := cloneRecord(rec)
	s.symptoms[rec.ID] = &stored
	s.userIndex[rec.UserID] = append(s.userIndex[rec.UserID], &stored)
	sortByDateDesc(s.userIndex[rec.UserID])
	notify(s.saveRecsChan)
	return nil
}

func (s *FileStorage) lookup(userID, id string) (*internal.SymptomRecord, bool) {
	r, ok := s.symptoms[id]
	if !ok || r.UserID != userID {
		return nil, false
	}
	return r, true
}

func (s *FileStorage) GetSymptom(ctx context.Context, userID, id string) (*internal.SymptomRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.lookup(userID, id)
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneRecord(r)
	return &out, nil
}

func (s *FileStorage) UpdateSymptom(ctx context.Context, userID, id string, patch *internal.SymptomPatch) (*internal.SymptomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.lookup(userID, id)
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(r)
	if patch.Date != nil {
		sortByDateDesc(s.userIndex[userID])
	}
	notify(s.saveRecsChan)
	out := cloneRecord(r)
	return &out, nil
}

func (s *FileStorage) DeleteSymptom(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(userID, id); !ok {
		return ErrNotFound
	}
	delete(s.symptoms, id)
	recs := s.userIndex[userID]
	for i, r := range recs {
		if r.ID == id {
			s.userIndex[userID] = append(recs[:i], recs[i+1:]...)
			break
		}
	}
	notify(s.saveRecsChan)
	return nil
}

func (s *FileStorage) ListSymptoms(ctx context.Context, userID string, rng DateRange) ([]internal.SymptomRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]internal.SymptomRecord, 0, len(s.userIndex[userID]))
	for _, r := range s.userIndex[userID] {
		if rng.Contains(r.Date) {
			recs = append(recs, cloneRecord(r))
		}
	}
	return recs, nil
}

// --- CustomFieldRepository ---
func (s *FileStorage) CreateField(ctx context.Context, def *internal.CustomFieldDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fields[def.UserID] == nil {
		s.fields[def.UserID] = make(map[string]*internal.CustomFieldDefinition)
	}
	if _, exists := s.fields[def.UserID][def.Name]; exists {
		return ErrConflict
	}
	stored := *def
	s.fields[def.UserID][def.Name] = &stored
	notify(s.saveDefsChan)
	return nil
}

func (s *FileStorage) ListFields(ctx context.Context, userID string) ([]internal.CustomFieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defs := make([]internal.CustomFieldDefinition, 0, len(s.fields[userID]))
	for _, d := range s.fields[userID] {
		defs = append(defs, *d)
	}
	sort.Slice(defs, func(i, j int) bool {
		if !defs[i].CreatedAt.Equal(defs[j].CreatedAt) {
			return defs[i].CreatedAt.Before(defs[j].CreatedAt)
		}
		return defs[i].Name < defs[j].Name
	})
	return defs, nil
}

// DeleteField removes the definition only; values already stored on records
// are left in place.
func (s *FileStorage) DeleteField(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, d := range s.fields[userID] {
		if d.ID == id {
			delete(s.fields[userID], name)
			notify(s.saveDefsChan)
			return nil
		}
	}
	return ErrNotFound
}

// --- Compile-time assertions ---
var _ SymptomRepository = (*FileStorage)(nil)
var _ CustomFieldRepository = (*FileStorage)(nil)
