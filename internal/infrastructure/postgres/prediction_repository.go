package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/internal/domain/port"
	"github.com/retainly/churn/internal/domain/valueobject"
)

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository creates a PostgreSQL-backed prediction repository.
func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

// customerDoc is the jsonb shape of the customer record column.
type customerDoc struct {
	Tenure          int             `json:"tenure"`
	MonthlyCharges  decimal.Decimal `json:"monthly_charges"`
	TotalCharges    decimal.Decimal `json:"total_charges"`
	ContractType    string          `json:"contract_type"`
	PaymentMethod   string          `json:"payment_method"`
	InternetService string          `json:"internet_service"`
	StreamingTV     int             `json:"streaming_tv"`
	StreamingMovies int             `json:"streaming_movies"`
	TechSupport     int             `json:"tech_support"`
	OnlineSecurity  int             `json:"online_security"`
}

func docFromRecord(r model.CustomerRecord) customerDoc {
	return customerDoc{
		Tenure:          r.Tenure(),
		MonthlyCharges:  r.MonthlyCharges(),
		TotalCharges:    r.TotalCharges(),
		ContractType:    r.ContractType().String(),
		PaymentMethod:   r.PaymentMethod().String(),
		InternetService: r.InternetService().String(),
		StreamingTV:     r.StreamingTV(),
		StreamingMovies: r.StreamingMovies(),
		TechSupport:     r.TechSupport(),
		OnlineSecurity:  r.OnlineSecurity(),
	}
}

func (d customerDoc) toRecord() (model.CustomerRecord, error) {
	return model.NewCustomerRecord(model.CustomerRecordInput{
		Tenure:          d.Tenure,
		MonthlyCharges:  d.MonthlyCharges,
		TotalCharges:    d.TotalCharges,
		ContractType:    d.ContractType,
		PaymentMethod:   d.PaymentMethod,
		InternetService: d.InternetService,
		StreamingTV:     d.StreamingTV,
		StreamingMovies: d.StreamingMovies,
		TechSupport:     d.TechSupport,
		OnlineSecurity:  d.OnlineSecurity,
	})
}

// Save persists a classified prediction.
func (r *PredictionRepository) Save(ctx context.Context, prediction *model.Prediction) error {
	doc, err := json.Marshal(docFromRecord(prediction.CustomerRecord()))
	if err != nil {
		return fmt.Errorf("failed to marshal customer record: %w", err)
	}

	query := `
		INSERT INTO predictions (
			id, user_id, customer,
			churn_probability, churn_prediction, risk_level,
			recommendations, risk_factors,
			predicted_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.pool.Exec(ctx, query,
		prediction.ID(),
		prediction.UserID(),
		doc,
		prediction.ChurnProbability(),
		prediction.ChurnPrediction(),
		prediction.RiskLevel().String(),
		prediction.Recommendations(),
		prediction.RiskFactors(),
		prediction.PredictedAt(),
		prediction.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	return nil
}

// FindByID retrieves a prediction by its unique identifier.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	query := `
		SELECT id, user_id, customer,
			churn_probability, churn_prediction, risk_level,
			recommendations, risk_factors,
			predicted_at, created_at
		FROM predictions
		WHERE id = $1
	`

	var (
		predID          uuid.UUID
		userID          uuid.UUID
		doc             []byte
		probability     float64
		churnPrediction int
		riskLevelStr    string
		recommendations []string
		riskFactors     []string
		predictedAt     time.Time
		createdAt       time.Time
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&predID, &userID, &doc,
		&probability, &churnPrediction, &riskLevelStr,
		&recommendations, &riskFactors,
		&predictedAt, &createdAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	var customer customerDoc
	if err := json.Unmarshal(doc, &customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer record: %w", err)
	}
	record, err := customer.toRecord()
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild customer record: %w", err)
	}

	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	return model.ReconstructPrediction(
		predID, userID, record,
		probability, churnPrediction, riskLevel,
		recommendations, riskFactors,
		predictedAt, createdAt,
	), nil
}

// Segments returns predictions grouped by risk band.
func (r *PredictionRepository) Segments(ctx context.Context) ([]port.RiskSegment, error) {
	query := `
		SELECT risk_level || ' Risk' AS segment,
			COUNT(*)::int AS count,
			AVG(churn_probability)::float8 AS avg_probability
		FROM predictions
		GROUP BY risk_level
		ORDER BY segment
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	segments := make([]port.RiskSegment, 0)
	for rows.Next() {
		var s port.RiskSegment
		if err := rows.Scan(&s.Segment, &s.Count, &s.AvgProbability); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// DailyCounts returns per-day prediction counts for the trailing window.
func (r *PredictionRepository) DailyCounts(ctx context.Context, days int) ([]port.DailyCount, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, COUNT(*)::int AS count
		FROM predictions
		WHERE created_at >= now() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	counts := make([]port.DailyCount, 0)
	for rows.Next() {
		var c port.DailyCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Distribution returns prediction counts bucketed by probability rounded to
// one decimal.
func (r *PredictionRepository) Distribution(ctx context.Context) ([]port.ProbabilityBucket, error) {
	query := `
		SELECT round(churn_probability::numeric, 1)::float8 AS prob, COUNT(*)::int AS count
		FROM predictions
		GROUP BY prob
		ORDER BY prob
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer rows.Close()

	buckets := make([]port.ProbabilityBucket, 0)
	for rows.Next() {
		var b port.ProbabilityBucket
		if err := rows.Scan(&b.Probability, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
