package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// SymptomRecord is one logged occurrence of a symptom. Date is a calendar date
// in YYYY-MM-DD form.
type SymptomRecord struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Name         string       `json:"name"`
	Category     string       `json:"category,omitempty"`
	Severity     int          `json:"severity"` // 1–5 scale
	Date         string       `json:"date"`
	Time         string       `json:"time,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	FoodAction   string       `json:"foodAction,omitempty"`
	CustomFields CustomFields `json:"custom_fields,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// SymptomPatch holds a partial update. Nil fields are left untouched.
type SymptomPatch struct {
	Name         *string      `json:"name,omitempty" validate:"omitnil,min=1"`
	Category     *string      `json:"category,omitempty"`
	Severity     *int         `json:"severity,omitempty" validate:"omitnil,gte=1,lte=5"`
	Date         *string      `json:"date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Time         *string      `json:"time,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	FoodAction   *string      `json:"foodAction,omitempty"`
	CustomFields CustomFields `json:"custom_fields,omitempty"`
}

// Apply copies every set field of p onto r. Custom field keys are merged.
func (p *SymptomPatch) Apply(r *SymptomRecord) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Severity != nil {
		r.Severity = *p.Severity
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.FoodAction != nil {
		r.FoodAction = *p.FoodAction
	}
	if len(p.CustomFields) > 0 {
		if r.CustomFields == nil {
			r.CustomFields = make(CustomFields, len(p.CustomFields))
		}
		for k, v := range p.CustomFields {
			r.CustomFields[k] = v
		}
	}
}

type SeverityBucket string

const (
	SeverityMild     SeverityBucket = "mild"
	SeverityModerate SeverityBucket = "moderate"
	SeveritySevere   SeverityBucket = "severe"
)

// BucketFor maps a 1–5 severity onto its display bucket.
func BucketFor(severity int) SeverityBucket {
	switch {
	case severity <= 2:
		return SeverityMild
	case severity <= 4:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

type CustomFieldDefinition struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"` // normalized: lowercase, spaces -> underscores
	DisplayName string    `json:"display_name"`
	Type        FieldType `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}
