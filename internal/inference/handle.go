package inference

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"score_predictor_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Predictor scores one normalized feature vector.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// LoadError reports an unreachable or malformed model artifact.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load model from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

const defaultLoadTimeout = 30 * time.Second

// ModelHandle lazily loads a layers-model the first time it is needed and
// shares the result across goroutines. Concurrent first callers wait on a
// single load. A failed load is reported to every waiter and is not cached,
// so a later call starts a fresh attempt.
type ModelHandle struct {
	source      ArtifactSource
	sourceName  string
	manifest    string
	loadTimeout time.Duration

	net   atomic.Pointer[Network]
	group singleflight.Group
	loads atomic.Int64
}

func NewModelHandle(source ArtifactSource, sourceName, manifest string) *ModelHandle {
	return &ModelHandle{
		source:      source,
		sourceName:  sourceName,
		manifest:    manifest,
		loadTimeout: defaultLoadTimeout,
	}
}

// Load returns the cached network, loading it on first use.
func (h *ModelHandle) Load(ctx context.Context) (*Network, error) {
	if n := h.net.Load(); n != nil {
		return n, nil
	}

	v, err, _ := h.group.Do("model", func() (interface{}, error) {
		if n := h.net.Load(); n != nil {
			return n, nil
		}

		// One caller's cancellation must not fail the other waiters.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.loadTimeout)
		defer cancel()

		h.loads.Add(1)
		start := time.Now()
		logger.Log.Info("Loading model", zap.String("source", h.sourceName), zap.String("manifest", h.manifest))

		n, err := LoadLayersModel(loadCtx, h.source, h.manifest)
		if err != nil {
			logger.Log.Error("Model load failed", zap.String("source", h.sourceName), zap.Error(err))
			return nil, &LoadError{Source: h.sourceName + "/" + h.manifest, Err: err}
		}

		h.net.Store(n)
		logger.Log.Info("Model loaded",
			zap.Int("input_dim", n.InputDim()),
			zap.Duration("elapsed", time.Since(start)))
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Network), nil
}

// Predict loads the model if needed and runs one inference.
func (h *ModelHandle) Predict(ctx context.Context, features []float64) (float64, error) {
	n, err := h.Load(ctx)
	if err != nil {
		return 0, err
	}
	return n.Predict(features)
}

// Loaded reports whether a model is resident.
func (h *ModelHandle) Loaded() bool {
	return h.net.Load() != nil
}

// LoadAttempts is the number of loads started so far.
func (h *ModelHandle) LoadAttempts() int64 {
	return h.loads.Load()
}
