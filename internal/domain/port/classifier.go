package port

import (
	"context"

	"github.com/retainly/churn/internal/domain/model"
)

// Classifier is the inference port over the pre-trained churn model. The
// artifact is loaded once at startup and is read-only afterwards, so
// implementations must be safe for unsynchronized concurrent calls.
type Classifier interface {
	// Predict returns the churn probability in [0,1] for the given feature
	// vector.
	Predict(ctx context.Context, features model.FeatureVector) (float64, error)
}
