package model

import "fmt"

// FeatureCount is the width of the model input vector.
const FeatureCount = 14

// Gender 性别编码
type Gender int

const (
	GenderFemale Gender = iota
	GenderMale
	GenderOther
)

func (g Gender) Label() (string, error) {
	switch g {
	case GenderFemale:
		return "Female", nil
	case GenderMale:
		return "Male", nil
	case GenderOther:
		return "Other", nil
	}
	return "", fmt.Errorf("unknown gender code %d", int(g))
}

// YesNo encodes part-time job and extracurricular answers.
type YesNo int

const (
	No YesNo = iota
	Yes
)

func (y YesNo) Label() (string, error) {
	switch y {
	case No:
		return "No", nil
	case Yes:
		return "Yes", nil
	}
	return "", fmt.Errorf("unknown yes/no code %d", int(y))
}

// DietQuality 饮食质量编码
type DietQuality int

const (
	DietFair DietQuality = iota
	DietGood
	DietPoor
)

func (d DietQuality) Label() (string, error) {
	switch d {
	case DietFair:
		return "Fair", nil
	case DietGood:
		return "Good", nil
	case DietPoor:
		return "Poor", nil
	}
	return "", fmt.Errorf("unknown diet quality code %d", int(d))
}

// ParentalEducation 父母教育程度编码
type ParentalEducation int

const (
	EducationBachelor ParentalEducation = iota
	EducationHighSchool
	EducationMaster
	EducationUnknown
)

func (p ParentalEducation) Label() (string, error) {
	switch p {
	case EducationBachelor:
		return "Bachelor", nil
	case EducationHighSchool:
		return "High School", nil
	case EducationMaster:
		return "Master", nil
	case EducationUnknown:
		return "Unknown", nil
	}
	return "", fmt.Errorf("unknown parental education code %d", int(p))
}

// InternetQuality 网络质量编码
type InternetQuality int

const (
	InternetAverage InternetQuality = iota
	InternetGood
	InternetPoor
)

func (q InternetQuality) Label() (string, error) {
	switch q {
	case InternetAverage:
		return "Average", nil
	case InternetGood:
		return "Good", nil
	case InternetPoor:
		return "Poor", nil
	}
	return "", fmt.Errorf("unknown internet quality code %d", int(q))
}

// Survey holds the fourteen answers of one student survey.
type Survey struct {
	Age                              int               `gorm:"column:age;not null" json:"age"`
	GenderCode                       Gender            `gorm:"column:gender_code;not null" json:"gender_code"`
	StudyHoursPerDay                 float64           `gorm:"column:study_hours_per_day;not null" json:"study_hours_per_day"`
	SocialMediaHours                 float64           `gorm:"column:social_media_hours;not null" json:"social_media_hours"`
	NetflixHours                     float64           `gorm:"column:netflix_hours;not null" json:"netflix_hours"`
	PartTimeJobCode                  YesNo             `gorm:"column:part_time_job_code;not null" json:"part_time_job_code"`
	AttendancePercentage             float64           `gorm:"column:attendance_percentage;not null" json:"attendance_percentage"`
	SleepHours                       float64           `gorm:"column:sleep_hours;not null" json:"sleep_hours"`
	DietQualityCode                  DietQuality       `gorm:"column:diet_quality_code;not null" json:"diet_quality_code"`
	ExerciseFrequency                int               `gorm:"column:exercise_frequency;not null" json:"exercise_frequency"`
	ParentalEducationLevelCode       ParentalEducation `gorm:"column:parental_education_level_code;not null" json:"parental_education_level_code"`
	InternetQualityCode              InternetQuality   `gorm:"column:internet_quality_code;not null" json:"internet_quality_code"`
	MentalHealthRating               int               `gorm:"column:mental_health_rating;not null" json:"mental_health_rating"`
	ExtracurricularParticipationCode YesNo             `gorm:"column:extracurricular_participation_code;not null" json:"extracurricular_participation_code"`
}

// FeatureVector lays the answers out in the column order the normalization
// statistics were computed in: continuous answers first, coded answers last.
func (s *Survey) FeatureVector() []float64 {
	return []float64{
		float64(s.Age),
		s.StudyHoursPerDay,
		s.SocialMediaHours,
		s.NetflixHours,
		s.AttendancePercentage,
		s.SleepHours,
		float64(s.ExerciseFrequency),
		float64(s.MentalHealthRating),
		float64(s.GenderCode),
		float64(s.PartTimeJobCode),
		float64(s.DietQualityCode),
		float64(s.ParentalEducationLevelCode),
		float64(s.InternetQualityCode),
		float64(s.ExtracurricularParticipationCode),
	}
}

// SurveyLabels is the human readable rendering of a survey's coded answers.
type SurveyLabels struct {
	Gender            string
	PartTimeJob       string
	DietQuality       string
	ParentalEducation string
	InternetQuality   string
	Extracurricular   string
}

// Labels maps every coded answer to its label and fails on the first code
// outside its enumeration.
func (s *Survey) Labels() (*SurveyLabels, error) {
	var (
		l   SurveyLabels
		err error
	)
	if l.Gender, err = s.GenderCode.Label(); err != nil {
		return nil, err
	}
	if l.PartTimeJob, err = s.PartTimeJobCode.Label(); err != nil {
		return nil, err
	}
	if l.DietQuality, err = s.DietQualityCode.Label(); err != nil {
		return nil, err
	}
	if l.ParentalEducation, err = s.ParentalEducationLevelCode.Label(); err != nil {
		return nil, err
	}
	if l.InternetQuality, err = s.InternetQualityCode.Label(); err != nil {
		return nil, err
	}
	if l.Extracurricular, err = s.ExtracurricularParticipationCode.Label(); err != nil {
		return nil, err
	}
	return &l, nil
}
