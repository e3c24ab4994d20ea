package repository

import (
	"context"
	"testing"
	"time"

	"score_predictor_backend/internal/model"
	"score_predictor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func sampleSurvey() model.Survey {
	return model.Survey{
		Age:                        20,
		GenderCode:                 model.GenderFemale,
		StudyHoursPerDay:           3.5,
		SocialMediaHours:           2,
		NetflixHours:               1,
		AttendancePercentage:       90,
		SleepHours:                 7,
		DietQualityCode:            model.DietGood,
		ExerciseFrequency:          3,
		ParentalEducationLevelCode: model.EducationMaster,
		InternetQualityCode:        model.InternetGood,
		MentalHealthRating:         6,
	}
}

func createUser(t *testing.T, repo *UserRepository, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "alice")
	err := repo.Create(ctx, &model.User{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestUserRepository_Find(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := createUser(t, repo, "bob")

	byName, err := repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	_, err = repo.FindByID(ctx, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestPredictionRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	preds := NewPredictionRepository(db)
	ctx := context.Background()
	u := createUser(t, users, "carol")

	p := &model.Prediction{
		UserID:              u.ID,
		StudentName:         "Dana",
		Survey:              sampleSurvey(),
		ExamScore:           71.25,
		GeneratedSuggestion: "sleep more",
	}
	require.NoError(t, preds.Create(ctx, p))
	require.True(t, model.IsUUID(p.ID))

	got, err := preds.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.StudentName)
	assert.Equal(t, sampleSurvey(), got.Survey)
	assert.InDelta(t, 71.25, got.ExamScore, 1e-9)
	require.NotNil(t, got.User)
	assert.Equal(t, "carol", got.User.Username)
	assert.Empty(t, got.User.Password)

	_, err = preds.FindByID(ctx, model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrPredictionNotFound)
}

func TestPredictionRepository_CreateMissingUser(t *testing.T) {
	db := newTestDB(t)
	preds := NewPredictionRepository(db)

	err := preds.Create(context.Background(), &model.Prediction{
		UserID:      model.GenerateUUID(),
		StudentName: "Ghost",
		Survey:      sampleSurvey(),
	})
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Prediction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPredictionRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	preds := NewPredictionRepository(db)
	ctx := context.Background()
	owner := createUser(t, users, "erin")
	other := createUser(t, users, "frank")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		p := &model.Prediction{
			UserID:      owner.ID,
			StudentName: string(rune('A' + i)),
			Survey:      sampleSurvey(),
			ExamScore:   float64(50 + i),
		}
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, preds.Create(ctx, p))
	}
	require.NoError(t, preds.Create(ctx, &model.Prediction{UserID: other.ID, StudentName: "Z", Survey: sampleSurvey()}))

	first, total, err := preds.ListByUser(ctx, owner.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, first, 5)
	assert.Equal(t, "G", first[0].StudentName)
	assert.Equal(t, "C", first[4].StudentName)

	second, total, err := preds.ListByUser(ctx, owner.ID, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, second, 2)
	assert.Equal(t, "B", second[0].StudentName)
	assert.Equal(t, "A", second[1].StudentName)
	assert.Equal(t, 20, second[1].Age)
	assert.InDelta(t, 50.0, second[1].ExamScore, 1e-9)

	empty, total, err := preds.ListByUser(ctx, model.GenerateUUID(), 1, 5)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, empty)
}
