package service

import (
	"context"
	"errors"
	"time"

	"score_predictor_backend/internal/inference"
	"score_predictor_backend/internal/model"
	"score_predictor_backend/internal/repository"
	"score_predictor_backend/internal/util"
	"score_predictor_backend/pkg/logger"
	"score_predictor_backend/pkg/monitoring"
	"score_predictor_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PredictionCache is an optional read-through cache for prediction details.
// Get reports a miss as (nil, nil).
type PredictionCache interface {
	Get(ctx context.Context, id string) (*model.PredictionDetail, error)
	Set(ctx context.Context, detail *model.PredictionDetail) error
}

type PredictionService struct {
	UserRepo       *repository.UserRepository
	PredictionRepo *repository.PredictionRepository
	Predictor      inference.Predictor
	Narrator       NarrativeGenerator
	Calibration    inference.Calibration
	Cache          PredictionCache
}

func NewPredictionService(
	userRepo *repository.UserRepository,
	predictionRepo *repository.PredictionRepository,
	predictor inference.Predictor,
	narrator NarrativeGenerator,
) *PredictionService {
	return &PredictionService{
		UserRepo:       userRepo,
		PredictionRepo: predictionRepo,
		Predictor:      predictor,
		Narrator:       narrator,
		Calibration:    inference.DefaultCalibration,
	}
}

// PredictResult echoes the submitted form together with the computed score,
// the suggestion and the id of the stored prediction.
type PredictResult struct {
	PredictionID string `json:"predictionId"`
	UserID       string `json:"userId"`
	StudentName  string `json:"studentName"`
	model.Survey
	ExamScore           float64   `json:"exam_score"`
	GeneratedSuggestion string    `json:"generatedSuggestion"`
	CreatedAt           time.Time `json:"createdAt"`
}

// PredictionList is one page of a user's history.
type PredictionList struct {
	User        model.UserSummary         `json:"user"`
	Predictions []model.PredictionSummary `json:"predictions"`
	Pagination  util.Pagination           `json:"pagination"`
}

// Predict runs validate, normalize, infer, adjust, narrate, persist and
// respond in order. Nothing is written unless every earlier step succeeded.
func (s *PredictionService) Predict(ctx context.Context, req *PredictRequest) (result *PredictResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "prediction.pipeline")
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = util.KindOf(err).String()
		}
		monitoring.PredictionsTotal.WithLabelValues(outcome).Inc()
		tracing.EndSpan(span, err)
	}()

	survey, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	score, err := s.score(ctx, survey)
	if err != nil {
		return nil, err
	}

	suggestion := s.narrate(ctx, survey, req.StudentName, score)

	prediction := &model.Prediction{
		UserID:              req.UserID,
		StudentName:         req.StudentName,
		Survey:              *survey,
		ExamScore:           score,
		GeneratedSuggestion: suggestion,
	}
	if err := s.persist(ctx, prediction); err != nil {
		return nil, err
	}

	logger.Log.Info("Prediction stored",
		zap.String("prediction_id", prediction.ID),
		zap.String("user_id", prediction.UserID),
		zap.Float64("exam_score", score))

	return &PredictResult{
		PredictionID:        prediction.ID,
		UserID:              prediction.UserID,
		StudentName:         prediction.StudentName,
		Survey:              prediction.Survey,
		ExamScore:           prediction.ExamScore,
		GeneratedSuggestion: prediction.GeneratedSuggestion,
		CreatedAt:           prediction.CreatedAt,
	}, nil
}

func (s *PredictionService) validate(ctx context.Context, req *PredictRequest) (survey *model.Survey, err error) {
	ctx, span := tracing.StartSpan(ctx, "prediction.validate")
	defer func() { tracing.EndSpan(span, err) }()

	survey, err = req.Validate()
	if err != nil {
		return nil, err
	}
	if _, err = s.UserRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	return survey, nil
}

// score covers normalize, infer and adjust.
func (s *PredictionService) score(ctx context.Context, survey *model.Survey) (score float64, err error) {
	ctx, span := tracing.StartSpan(ctx, "prediction.infer")
	defer func() { tracing.EndSpan(span, err) }()

	features := s.Calibration.Normalize(survey.FeatureVector())

	start := time.Now()
	raw, err := s.Predictor.Predict(ctx, features)
	monitoring.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var loadErr *inference.LoadError
		if errors.As(err, &loadErr) {
			return 0, util.Dependency("model unavailable", err)
		}
		return 0, util.Dependency("inference failed", err)
	}

	score = s.Calibration.AdjustScore(raw)
	span.SetAttributes(
		attribute.Float64("prediction.raw", raw),
		attribute.Float64("prediction.score", score))
	return score, nil
}

func (s *PredictionService) narrate(ctx context.Context, survey *model.Survey, studentName string, score float64) string {
	ctx, span := tracing.StartSpan(ctx, "prediction.narrate")
	defer span.End()

	suggestion := s.Narrator.Suggest(ctx, survey, studentName, score)
	span.SetAttributes(attribute.Bool("narrative.fallback", suggestion == util.SuggestionFallback))
	return suggestion
}

func (s *PredictionService) persist(ctx context.Context, p *model.Prediction) (err error) {
	ctx, span := tracing.StartSpan(ctx, "prediction.persist")
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.PredictionRepo.Create(ctx, p); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			logger.Log.Warn("Owner vanished before prediction insert", zap.String("user_id", p.UserID))
		}
		return err
	}
	return nil
}

// GetPrediction returns one prediction with its owner. A malformed id is a
// validation error.
func (s *PredictionService) GetPrediction(ctx context.Context, id string) (*model.PredictionDetail, error) {
	if !model.IsUUID(id) {
		return nil, util.Validation("invalid prediction id")
	}

	if s.Cache != nil {
		detail, err := s.Cache.Get(ctx, id)
		if err != nil {
			logger.Log.Warn("Prediction cache read failed", zap.String("prediction_id", id), zap.Error(err))
		} else if detail != nil {
			return detail, nil
		}
	}

	p, err := s.PredictionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := p.Detail()

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, detail); err != nil {
			logger.Log.Warn("Prediction cache write failed", zap.String("prediction_id", id), zap.Error(err))
		}
	}
	return detail, nil
}

// PageParams clamps paging input. Non-positive values fall back to the
// defaults and limit is capped at util.MaxLimit.
func PageParams(page, limit int) (int, int) {
	if page < 1 {
		page = util.DefaultPage
	}
	if limit < 1 {
		limit = util.DefaultLimit
	}
	if limit > util.MaxLimit {
		limit = util.MaxLimit
	}
	return page, limit
}

// ListPredictions returns one page of a user's predictions, newest first.
func (s *PredictionService) ListPredictions(ctx context.Context, userID string, page, limit int) (*PredictionList, error) {
	if !model.IsUUID(userID) {
		return nil, util.Validation("invalid user id")
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	page, limit = PageParams(page, limit)
	items, total, err := s.PredictionRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	return &PredictionList{
		User:        user.Summary(),
		Predictions: items,
		Pagination:  util.NewPagination(page, limit, total),
	}, nil
}
