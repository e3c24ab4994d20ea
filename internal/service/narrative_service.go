package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"score_predictor_backend/internal/model"
	"score_predictor_backend/internal/util"
	"score_predictor_backend/pkg/logger"
	"score_predictor_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// NarrativeGenerator turns a scored survey into advice for the teacher.
// It never fails: on any problem it returns util.SuggestionFallback.
type NarrativeGenerator interface {
	Suggest(ctx context.Context, survey *model.Survey, studentName string, score float64) string
}

const narrativeSystemPrompt = "You are an experienced educational counsellor who gives teachers short, practical advice."

const defaultNarrativeTimeout = 20 * time.Second

type NarrativeService struct {
	completer TextCompleter
	timeout   atomic.Int64
}

func NewNarrativeService(completer TextCompleter, timeout time.Duration) *NarrativeService {
	s := &NarrativeService{completer: completer}
	s.SetTimeout(timeout)
	return s
}

func (s *NarrativeService) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = defaultNarrativeTimeout
	}
	s.timeout.Store(int64(timeout))
}

func (s *NarrativeService) Suggest(ctx context.Context, survey *model.Survey, studentName string, score float64) string {
	prompt, err := BuildSuggestionPrompt(survey, studentName, score)
	if err != nil {
		return s.fallback("prompt", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.timeout.Load()))
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.completer.Complete(ctx, narrativeSystemPrompt, prompt)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return s.fallback("completion", r.err)
		}
		return r.text
	case <-ctx.Done():
		return s.fallback("timeout", ctx.Err())
	}
}

func (s *NarrativeService) fallback(stage string, err error) string {
	monitoring.NarrativeFallbacks.WithLabelValues(stage).Inc()
	logger.Log.Warn("Suggestion generation failed, using fallback",
		zap.String("stage", stage),
		zap.Error(err))
	return util.SuggestionFallback
}

// BuildSuggestionPrompt renders the prompt for one student. The output only
// depends on its arguments.
func BuildSuggestionPrompt(survey *model.Survey, studentName string, score float64) (string, error) {
	labels, err := survey.Labels()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("A teacher is surveying their students and uses this application to get advice.\n")
	fmt.Fprintf(&b, "The student's name is: %s.\n", studentName)
	b.WriteString("Based on the student profile below, give actionable advice that helps the teacher improve this student's exam score.\n")
	fmt.Fprintf(&b, "The student's predicted exam score is: %.2f.\n\n", score)

	b.WriteString("Student profile (from the survey):\n")
	fmt.Fprintf(&b, "- Age: %d\n", survey.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", labels.Gender)
	fmt.Fprintf(&b, "- Study hours per day: %g\n", survey.StudyHoursPerDay)
	fmt.Fprintf(&b, "- Social media hours per day: %g\n", survey.SocialMediaHours)
	fmt.Fprintf(&b, "- Netflix hours per day: %g\n", survey.NetflixHours)
	fmt.Fprintf(&b, "- Has a part-time job: %s\n", labels.PartTimeJob)
	fmt.Fprintf(&b, "- Attendance percentage: %g%%\n", survey.AttendancePercentage)
	fmt.Fprintf(&b, "- Sleep hours per day: %g\n", survey.SleepHours)
	fmt.Fprintf(&b, "- Diet quality: %s\n", labels.DietQuality)
	fmt.Fprintf(&b, "- Exercise frequency (days per week, 0-7): %d\n", survey.ExerciseFrequency)
	fmt.Fprintf(&b, "- Parental education level: %s\n", labels.ParentalEducation)
	fmt.Fprintf(&b, "- Internet quality: %s\n", labels.InternetQuality)
	fmt.Fprintf(&b, "- Mental health rating (1-10, 10 is best): %d\n", survey.MentalHealthRating)
	fmt.Fprintf(&b, "- Takes part in extracurricular activities: %s\n\n", labels.Extracurricular)

	b.WriteString("Give specific, concise and useful advice the teacher can act on. Do not mention the student's gender in the advice.\n")
	b.WriteString("Focus on study habits, time management, well-being and use of resources that the teacher can deliver or facilitate.\n")
	b.WriteString("Format the advice as a short paragraph or a few bullet points.")

	return b.String(), nil
}
