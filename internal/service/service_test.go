package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"score_predictor_backend/internal/config"
	"score_predictor_backend/internal/inference"
	"score_predictor_backend/internal/model"
	"score_predictor_backend/internal/repository"
	"score_predictor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubPredictor struct {
	mu       sync.Mutex
	raw      float64
	err      error
	received []float64
}

func (p *stubPredictor) Predict(ctx context.Context, features []float64) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append([]float64(nil), features...)
	return p.raw, p.err
}

type stubNarrator struct {
	text string
}

func (n *stubNarrator) Suggest(ctx context.Context, survey *model.Survey, studentName string, score float64) string {
	return n.text
}

type stubCompleter struct {
	text  string
	err   error
	delay time.Duration
}

func (c *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.text, c.err
}

type memCache struct {
	mu    sync.Mutex
	items map[string]*model.PredictionDetail
	gets  int
}

func (c *memCache) Get(ctx context.Context, id string) (*model.PredictionDetail, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.items[id], nil
}

func (c *memCache) Set(ctx context.Context, d *model.PredictionDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[d.PredictionID] = d
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Prediction{}))
	return db
}

type fixture struct {
	db        *gorm.DB
	users     *repository.UserRepository
	preds     *repository.PredictionRepository
	predictor *stubPredictor
	service   *PredictionService
	user      *model.User
}

func newFixture(t *testing.T, narrator NarrativeGenerator) *fixture {
	db := newTestDB(t)
	f := &fixture{
		db:        db,
		users:     repository.NewUserRepository(db),
		preds:     repository.NewPredictionRepository(db),
		predictor: &stubPredictor{raw: 110.5},
	}
	f.service = NewPredictionService(f.users, f.preds, f.predictor, narrator)
	f.user = &model.User{Username: "teacher", Password: "x"}
	require.NoError(t, f.users.Create(context.Background(), f.user))
	return f
}

func (f *fixture) predictionCount(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&model.Prediction{}).Count(&n).Error)
	return n
}

func validRequest(userID string) *PredictRequest {
	return &PredictRequest{
		UserID:                           userID,
		StudentName:                      "Lin",
		Age:                              Num(21),
		GenderCode:                       Num(1),
		StudyHoursPerDay:                 Num(4),
		SocialMediaHours:                 Num(2.5),
		NetflixHours:                     Num(1),
		PartTimeJobCode:                  Num(0),
		AttendancePercentage:             Num(92.5),
		SleepHours:                       Num(7),
		DietQualityCode:                  Num(1),
		ExerciseFrequency:                Num(3),
		ParentalEducationLevelCode:       Num(2),
		InternetQualityCode:              Num(0),
		MentalHealthRating:               Num(8),
		ExtracurricularParticipationCode: Num(1),
	}
}

func TestNumberUnmarshal(t *testing.T) {
	var req PredictRequest
	body := `{"age": "21", "gender_code": 1, "study_hours_per_day": " 3.5 ", "social_media_hours": null, "netflix_hours": "abc", "sleep_hours": true}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, Num(21), req.Age)
	assert.Equal(t, Num(1), req.GenderCode)
	assert.Equal(t, Num(3.5), req.StudyHoursPerDay)
	assert.False(t, req.SocialMediaHours.Present)
	assert.True(t, req.NetflixHours.Invalid)
	assert.True(t, req.SleepHours.Invalid)
	assert.False(t, req.AttendancePercentage.Present)
}

func TestPredictRequestValidate(t *testing.T) {
	id := model.GenerateUUID()
	survey, err := validRequest(id).Validate()
	require.NoError(t, err)
	assert.Equal(t, 21, survey.Age)
	assert.Equal(t, model.GenderMale, survey.GenderCode)
	assert.Equal(t, model.EducationMaster, survey.ParentalEducationLevelCode)
	assert.Equal(t, model.Yes, survey.ExtracurricularParticipationCode)

	cases := map[string]struct {
		mutate func(r *PredictRequest)
		want   string
	}{
		"missing field":      {func(r *PredictRequest) { r.SleepHours = Number{} }, "missing fields: sleep_hours"},
		"missing name":       {func(r *PredictRequest) { r.StudentName = "  " }, "missing fields: studentName"},
		"missing user":       {func(r *PredictRequest) { r.UserID = "" }, "missing fields: userId"},
		"malformed user":     {func(r *PredictRequest) { r.UserID = "42" }, "invalid fields: userId"},
		"unknown code":       {func(r *PredictRequest) { r.DietQualityCode = Num(3) }, "invalid fields: diet_quality_code"},
		"fractional integer": {func(r *PredictRequest) { r.Age = Num(20.5) }, "invalid fields: age"},
		"out of range":       {func(r *PredictRequest) { r.MentalHealthRating = Num(0) }, "invalid fields: mental_health_rating"},
		"not numeric":        {func(r *PredictRequest) { r.NetflixHours = Number{Present: true, Invalid: true} }, "invalid fields: netflix_hours"},
		"exercise over 7":    {func(r *PredictRequest) { r.ExerciseFrequency = Num(8) }, "invalid fields: exercise_frequency"},
		"age over 120":       {func(r *PredictRequest) { r.Age = Num(121) }, "invalid fields: age"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest(id)
			tc.mutate(req)
			_, err := req.Validate()
			require.Error(t, err)
			assert.Equal(t, util.KindValidation, util.KindOf(err))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestPredictRequestAcceptsBounds(t *testing.T) {
	req := validRequest(model.GenerateUUID())
	req.Age = Num(120)
	req.ExerciseFrequency = Num(7)
	survey, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, 120, survey.Age)
	assert.Equal(t, 7, survey.ExerciseFrequency)

	req.Age = Num(0)
	req.ExerciseFrequency = Num(0)
	_, err = req.Validate()
	require.NoError(t, err)
}

func TestPredictHappyPath(t *testing.T) {
	f := newFixture(t, &stubNarrator{text: "Encourage a steady sleep schedule."})
	req := validRequest(f.user.ID)

	res, err := f.service.Predict(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 110.5-35, res.ExamScore, 1e-9)
	assert.Equal(t, "Encourage a steady sleep schedule.", res.GeneratedSuggestion)
	assert.True(t, model.IsUUID(res.PredictionID))
	assert.Equal(t, "Lin", res.StudentName)
	assert.Equal(t, 21, res.Age)
	assert.InDelta(t, 92.5, res.AttendancePercentage, 1e-9)

	survey, err := validRequest(f.user.ID).Validate()
	require.NoError(t, err)
	want := inference.DefaultCalibration.Normalize(survey.FeatureVector())
	assert.Equal(t, want, f.predictor.received)

	stored, err := f.preds.FindByID(context.Background(), res.PredictionID)
	require.NoError(t, err)
	assert.InDelta(t, res.ExamScore, stored.ExamScore, 1e-9)
	assert.Equal(t, f.user.ID, stored.UserID)
}

func TestPredictNarrativeFailureUsesFallback(t *testing.T) {
	narrator := NewNarrativeService(&stubCompleter{err: errors.New("quota exceeded")}, time.Second)
	f := newFixture(t, narrator)

	res, err := f.service.Predict(context.Background(), validRequest(f.user.ID))
	require.NoError(t, err)
	assert.Equal(t, util.SuggestionFallback, res.GeneratedSuggestion)
	assert.InDelta(t, 75.5, res.ExamScore, 1e-9)
	assert.Equal(t, int64(1), f.predictionCount(t))
}

func TestPredictNarrativeTimeoutUsesFallback(t *testing.T) {
	narrator := NewNarrativeService(&stubCompleter{text: "late", delay: time.Second}, 20*time.Millisecond)
	f := newFixture(t, narrator)

	res, err := f.service.Predict(context.Background(), validRequest(f.user.ID))
	require.NoError(t, err)
	assert.Equal(t, util.SuggestionFallback, res.GeneratedSuggestion)
}

func TestPredictMissingFieldWritesNothing(t *testing.T) {
	f := newFixture(t, &stubNarrator{text: "ok"})
	req := validRequest(f.user.ID)
	req.InternetQualityCode = Number{}

	_, err := f.service.Predict(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	assert.Nil(t, f.predictor.received)
	assert.Zero(t, f.predictionCount(t))
}

func TestPredictUnknownUser(t *testing.T) {
	f := newFixture(t, &stubNarrator{text: "ok"})

	_, err := f.service.Predict(context.Background(), validRequest(model.GenerateUUID()))
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.Equal(t, 404, util.KindOf(err).Status())
	assert.Zero(t, f.predictionCount(t))
}

func TestPredictModelLoadFailure(t *testing.T) {
	f := newFixture(t, &stubNarrator{text: "ok"})
	f.predictor.err = &inference.LoadError{Source: "file://missing/model.json", Err: errors.New("no such file")}

	_, err := f.service.Predict(context.Background(), validRequest(f.user.ID))
	require.Error(t, err)
	assert.Equal(t, util.KindDependency, util.KindOf(err))
	assert.Equal(t, 500, util.KindOf(err).Status())
	assert.Contains(t, err.Error(), "model unavailable")
	assert.Zero(t, f.predictionCount(t))
}

func TestGetPrediction(t *testing.T) {
	f := newFixture(t, &stubNarrator{text: "ok"})
	cache := &memCache{items: map[string]*model.PredictionDetail{}}
	f.service.Cache = cache
	ctx := context.Background()

	res, err := f.service.Predict(ctx, validRequest(f.user.ID))
	require.NoError(t, err)

	detail, err := f.service.GetPrediction(ctx, res.PredictionID)
	require.NoError(t, err)
	assert.Equal(t, res.PredictionID, detail.PredictionID)
	require.NotNil(t, detail.User)
	assert.Equal(t, "teacher", detail.User.Username)
	assert.Contains(t, cache.items, res.PredictionID)

	again, err := f.service.GetPrediction(ctx, res.PredictionID)
	require.NoError(t, err)
	assert.Same(t, cache.items[res.PredictionID], again)

	_, err = f.service.GetPrediction(ctx, "not-a-uuid")
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = f.service.GetPrediction(ctx, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrPredictionNotFound)
}

func TestListPredictionsPagination(t *testing.T) {
	f := newFixture(t, &stubNarrator{text: "ok"})
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := f.service.Predict(ctx, validRequest(f.user.ID))
		require.NoError(t, err)
	}

	list, err := f.service.ListPredictions(ctx, f.user.ID, 2, 5)
	require.NoError(t, err)
	assert.Len(t, list.Predictions, 2)
	assert.Equal(t, util.Pagination{CurrentPage: 2, ItemsPerPage: 5, TotalItems: 7, TotalPages: 2}, list.Pagination)
	assert.Equal(t, f.user.Summary(), list.User)

	list, err = f.service.ListPredictions(ctx, f.user.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list.Predictions, util.DefaultLimit)
	assert.Equal(t, util.DefaultPage, list.Pagination.CurrentPage)

	_, err = f.service.ListPredictions(ctx, model.GenerateUUID(), 1, 5)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = f.service.ListPredictions(ctx, "bad", 1, 5)
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestPageParams(t *testing.T) {
	page, limit := PageParams(-1, 1000)
	assert.Equal(t, util.DefaultPage, page)
	assert.Equal(t, util.MaxLimit, limit)

	page, limit = PageParams(3, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, limit)
}

func TestAuthService(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	auth := NewAuthService(users, cfg)
	ctx := context.Background()

	user, err := auth.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.Password)

	_, err = auth.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	_, err = auth.Register(ctx, "", "pw")
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	total, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	res, err := auth.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.UserID)
	claims, err := util.ParseJWT(res.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	res, err = auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	assert.Nil(t, res)

	_, err = auth.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestBuildSuggestionPrompt(t *testing.T) {
	survey, err := validRequest(model.GenerateUUID()).Validate()
	require.NoError(t, err)

	prompt, err := BuildSuggestionPrompt(survey, "Lin", 75.456)
	require.NoError(t, err)
	again, err := BuildSuggestionPrompt(survey, "Lin", 75.456)
	require.NoError(t, err)
	assert.Equal(t, prompt, again)

	for _, want := range []string{"Lin", "75.46", "Gender: Male", "Diet quality: Good", "Parental education level: Master", "Internet quality: Average", "extracurricular activities: Yes", "Attendance percentage: 92.5%"} {
		assert.True(t, strings.Contains(prompt, want), "prompt lacks %q", want)
	}

	survey.InternetQualityCode = 9
	_, err = BuildSuggestionPrompt(survey, "Lin", 75)
	assert.Error(t, err)
}

func TestNarrativeServiceReturnsTextVerbatim(t *testing.T) {
	survey, err := validRequest(model.GenerateUUID()).Validate()
	require.NoError(t, err)

	text := "  Plan two focused study blocks.\n"
	s := NewNarrativeService(&stubCompleter{text: text}, time.Second)
	assert.Equal(t, text, s.Suggest(context.Background(), survey, "Lin", 70))

	s = NewNarrativeService(NewAIService(config.AIConfig{}), time.Second)
	assert.Equal(t, util.SuggestionFallback, s.Suggest(context.Background(), survey, "Lin", 70))
}
