package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"score_predictor_backend/internal/model"
	"score_predictor_backend/internal/util"
)

// Number accepts a JSON number or a numeric string. null and an absent key
// both leave it unset.
type Number struct {
	Value   float64
	Present bool
	Invalid bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	n.Present = true

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			n.Invalid = true
			return nil
		}
		text = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		n.Invalid = true
		return nil
	}
	n.Value = v
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Present || n.Invalid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func Num(v float64) Number {
	return Number{Value: v, Present: true}
}

// PredictRequest is the survey form as posted by the client.
// swagger:model PredictRequest
type PredictRequest struct {
	UserID                           string `json:"userId"`
	StudentName                      string `json:"studentName"`
	Age                              Number `json:"age" swaggertype:"number"`
	GenderCode                       Number `json:"gender_code" swaggertype:"number"`
	StudyHoursPerDay                 Number `json:"study_hours_per_day" swaggertype:"number"`
	SocialMediaHours                 Number `json:"social_media_hours" swaggertype:"number"`
	NetflixHours                     Number `json:"netflix_hours" swaggertype:"number"`
	PartTimeJobCode                  Number `json:"part_time_job_code" swaggertype:"number"`
	AttendancePercentage             Number `json:"attendance_percentage" swaggertype:"number"`
	SleepHours                       Number `json:"sleep_hours" swaggertype:"number"`
	DietQualityCode                  Number `json:"diet_quality_code" swaggertype:"number"`
	ExerciseFrequency                Number `json:"exercise_frequency" swaggertype:"number"`
	ParentalEducationLevelCode       Number `json:"parental_education_level_code" swaggertype:"number"`
	InternetQualityCode              Number `json:"internet_quality_code" swaggertype:"number"`
	MentalHealthRating               Number `json:"mental_health_rating" swaggertype:"number"`
	ExtracurricularParticipationCode Number `json:"extracurricular_participation_code" swaggertype:"number"`
}

const (
	maxAge      = 120
	hoursPerDay = 24
)

type fieldRule struct {
	name    string
	value   *Number
	integer bool
	min     float64
	max     float64
}

func (r *PredictRequest) rules() []fieldRule {
	return []fieldRule{
		{"age", &r.Age, true, 0, maxAge},
		{"gender_code", &r.GenderCode, true, 0, float64(model.GenderOther)},
		{"study_hours_per_day", &r.StudyHoursPerDay, false, 0, hoursPerDay},
		{"social_media_hours", &r.SocialMediaHours, false, 0, hoursPerDay},
		{"netflix_hours", &r.NetflixHours, false, 0, hoursPerDay},
		{"part_time_job_code", &r.PartTimeJobCode, true, 0, float64(model.Yes)},
		{"attendance_percentage", &r.AttendancePercentage, false, 0, 100},
		{"sleep_hours", &r.SleepHours, false, 0, hoursPerDay},
		{"diet_quality_code", &r.DietQualityCode, true, 0, float64(model.DietPoor)},
		{"exercise_frequency", &r.ExerciseFrequency, true, 0, 7},
		{"parental_education_level_code", &r.ParentalEducationLevelCode, true, 0, float64(model.EducationUnknown)},
		{"internet_quality_code", &r.InternetQualityCode, true, 0, float64(model.InternetPoor)},
		{"mental_health_rating", &r.MentalHealthRating, true, 1, 10},
		{"extracurricular_participation_code", &r.ExtracurricularParticipationCode, true, 0, float64(model.Yes)},
	}
}

// Validate checks identity fields and all fourteen answers and returns the
// typed survey. Every problem is reported in one validation error.
func (r *PredictRequest) Validate() (*model.Survey, error) {
	var missing, malformed []string

	r.StudentName = strings.TrimSpace(r.StudentName)
	r.UserID = strings.TrimSpace(r.UserID)
	if r.UserID == "" {
		missing = append(missing, "userId")
	} else if !model.IsUUID(r.UserID) {
		malformed = append(malformed, "userId")
	}
	if r.StudentName == "" {
		missing = append(missing, "studentName")
	}

	for _, rule := range r.rules() {
		v := rule.value
		switch {
		case !v.Present:
			missing = append(missing, rule.name)
		case v.Invalid,
			rule.integer && v.Value != math.Trunc(v.Value),
			v.Value < rule.min || v.Value > rule.max:
			malformed = append(malformed, rule.name)
		}
	}

	if len(missing) > 0 || len(malformed) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "missing fields: "+strings.Join(missing, ", "))
		}
		if len(malformed) > 0 {
			parts = append(parts, "invalid fields: "+strings.Join(malformed, ", "))
		}
		return nil, util.Validation(strings.Join(parts, "; "))
	}

	return &model.Survey{
		Age:                              int(r.Age.Value),
		GenderCode:                       model.Gender(r.GenderCode.Value),
		StudyHoursPerDay:                 r.StudyHoursPerDay.Value,
		SocialMediaHours:                 r.SocialMediaHours.Value,
		NetflixHours:                     r.NetflixHours.Value,
		PartTimeJobCode:                  model.YesNo(r.PartTimeJobCode.Value),
		AttendancePercentage:             r.AttendancePercentage.Value,
		SleepHours:                       r.SleepHours.Value,
		DietQualityCode:                  model.DietQuality(r.DietQualityCode.Value),
		ExerciseFrequency:                int(r.ExerciseFrequency.Value),
		ParentalEducationLevelCode:       model.ParentalEducation(r.ParentalEducationLevelCode.Value),
		InternetQualityCode:              model.InternetQuality(r.InternetQualityCode.Value),
		MentalHealthRating:               int(r.MentalHealthRating.Value),
		ExtracurricularParticipationCode: model.YesNo(r.ExtracurricularParticipationCode.Value),
	}, nil
}
