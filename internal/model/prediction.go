package model

import "time"

// Prediction is one scored survey. Rows are written once and never updated.
// swagger:model Prediction
type Prediction struct {
	UUIDBase
	UserID      string `gorm:"type:varchar(36);not null;index" json:"userId"`
	User        *User  `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	StudentName string `gorm:"size:255;not null" json:"studentName"`

	Survey `gorm:"embedded"`

	ExamScore           float64 `gorm:"column:exam_score;not null" json:"exam_score"`
	GeneratedSuggestion string  `gorm:"column:generated_suggestion;type:text" json:"generatedSuggestion"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// PredictionSummary is the row shape returned by history listings.
type PredictionSummary struct {
	PredictionID string    `json:"predictionId"`
	StudentName  string    `json:"studentName"`
	Age          int       `json:"age"`
	GenderCode   Gender    `json:"gender_code"`
	ExamScore    float64   `json:"exam_score"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PredictionDetail is a full record with its owner.
type PredictionDetail struct {
	PredictionID string `json:"predictionId"`
	StudentName  string `json:"studentName"`
	Survey
	ExamScore           float64      `json:"exam_score"`
	GeneratedSuggestion string       `json:"generatedSuggestion"`
	CreatedAt           time.Time    `json:"createdAt"`
	User                *UserSummary `json:"user"`
}

func (p *Prediction) Detail() *PredictionDetail {
	d := &PredictionDetail{
		PredictionID:        p.ID,
		StudentName:         p.StudentName,
		Survey:              p.Survey,
		ExamScore:           p.ExamScore,
		GeneratedSuggestion: p.GeneratedSuggestion,
		CreatedAt:           p.CreatedAt,
	}
	if p.User != nil {
		s := p.User.Summary()
		d.User = &s
	}
	return d
}
