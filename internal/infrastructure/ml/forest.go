package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/retainly/churn/internal/domain/model"
)

// Forest implements port.Classifier over a random-forest artifact trained
// offline. The artifact is loaded once at startup; after that the forest is
// immutable and safe for unsynchronized concurrent Predict calls.
type Forest struct {
	trees  []tree
	logger *slog.Logger
}

// node is one decision node. Non-leaf nodes route on
// features[Feature] <= Threshold; leaf nodes carry the churn probability
// observed at that leaf during training.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

// tree is a flat node array with the root at index 0.
type tree struct {
	Nodes []node `json:"nodes"`
}

// artifact is the on-disk model format, owned by the training step.
type artifact struct {
	SchemaVersion int      `json:"schema_version"`
	ModelType     string   `json:"model_type"`
	Features      []string `json:"features"`
	Trees         []tree   `json:"trees"`
}

const supportedSchemaVersion = 1

// LoadForest reads and validates the model artifact. Any failure here means
// the process must not start serving; callers treat the error as fatal.
func LoadForest(path string, logger *slog.Logger) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ml: read model artifact %q: %w", path, err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("ml: parse model artifact %q: %w", path, err)
	}

	if a.SchemaVersion != supportedSchemaVersion {
		return nil, fmt.Errorf("ml: unsupported artifact schema version %d", a.SchemaVersion)
	}
	if a.ModelType != "random_forest" {
		return nil, fmt.Errorf("ml: unsupported model type %q", a.ModelType)
	}
	if err := validateSchema(a.Features); err != nil {
		return nil, err
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("ml: artifact contains no trees")
	}
	for i, t := range a.Trees {
		if err := validateTree(t); err != nil {
			return nil, fmt.Errorf("ml: tree %d: %w", i, err)
		}
	}

	logger.Info("model artifact loaded",
		slog.String("path", path),
		slog.Int("trees", len(a.Trees)),
		slog.Int("features", len(a.Features)),
	)

	return &Forest{trees: a.Trees, logger: logger}, nil
}

// validateSchema checks that the artifact's feature columns match the
// encoder's output order exactly. A drifted schema would silently misread
// every feature, so this is a startup error.
func validateSchema(features []string) error {
	if len(features) != model.FeatureCount {
		return fmt.Errorf("ml: artifact has %d features, expected %d", len(features), model.FeatureCount)
	}
	for i, name := range features {
		if name != model.FeatureNames[i] {
			return fmt.Errorf("ml: feature column %d is %q, expected %q", i, name, model.FeatureNames[i])
		}
	}
	return nil
}

func validateTree(t tree) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("has no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			if n.Value < 0 || n.Value > 1 {
				return fmt.Errorf("node %d: leaf value %v outside [0,1]", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= model.FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// Predict averages the per-tree leaf probabilities for the given feature
// vector and clamps the result to [0,1].
func (f *Forest) Predict(_ context.Context, features model.FeatureVector) (float64, error) {
	if len(features) != model.FeatureCount {
		return 0, fmt.Errorf("ml: feature vector has %d columns, expected %d", len(features), model.FeatureCount)
	}

	var sum float64
	for i := range f.trees {
		sum += f.trees[i].eval(features)
	}

	p := sum / float64(len(f.trees))
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return p, nil
}

// eval walks the tree from the root to a leaf. Child indices strictly
// increase (enforced at load), so traversal terminates.
func (t tree) eval(features model.FeatureVector) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if features[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
