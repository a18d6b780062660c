package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retainly/churn/internal/application/dto"
)

// UpstreamError reports an unusable batch upload (unreadable file, missing
// header columns). The whole request fails; no partial batch is produced.
type UpstreamError struct {
	Reason string
}

func (e *UpstreamError) Error() string { return e.Reason }

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// requiredColumns are the CSV header columns a batch upload must carry.
// Column order is free; extra columns are ignored.
var requiredColumns = []string{
	"tenure",
	"monthly_charges",
	"total_charges",
	"contract_type",
	"payment_method",
	"internet_service",
	"streaming_tv",
	"streaming_movies",
	"tech_support",
	"online_security",
}

// BatchPredict is the use case for scoring an uploaded CSV of customers.
// Rows are independent: a malformed row becomes a RowError and the batch
// continues. Results preserve input order.
type BatchPredict struct {
	predictor *PredictCustomer
	logger    *slog.Logger
}

// NewBatchPredict creates a new BatchPredict use case.
func NewBatchPredict(predictor *PredictCustomer, logger *slog.Logger) *BatchPredict {
	return &BatchPredict{predictor: predictor, logger: logger}
}

// Execute parses the CSV, applies the single-record pipeline per row and
// folds the summary over successful rows only.
func (uc *BatchPredict) Execute(ctx context.Context, userID uuid.UUID, r io.Reader) (dto.BatchResponse, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return dto.BatchResponse{}, &UpstreamError{Reason: fmt.Sprintf("failed to read CSV header: %v", err)}
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return dto.BatchResponse{}, err
	}

	// Field counts vary on malformed rows; handled per row below.
	reader.FieldsPerRecord = -1

	var (
		results   []dto.PredictResponse
		rowErrors []dto.RowError
		probSum   float64
		row       int
	)
	summary := dto.BatchSummary{}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: row, Reason: fmt.Sprintf("unreadable row: %v", err)})
			continue
		}

		req, err := decodeRow(columns, fields)
		if err != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: row, Reason: err.Error()})
			continue
		}

		record, err := req.ToRecord()
		if err != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: row, Reason: err.Error()})
			continue
		}

		result, err := uc.predictor.PredictRecord(ctx, userID, record)
		if err != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: row, Reason: err.Error()})
			continue
		}

		results = append(results, result)
		probSum += result.ChurnProbability
		switch result.RiskLevel {
		case "High":
			summary.HighRisk++
		case "Medium":
			summary.MediumRisk++
		default:
			summary.LowRisk++
		}
	}

	summary.TotalCustomers = len(results)
	if len(results) > 0 {
		summary.AvgChurnProbability = probSum / float64(len(results))
	}

	uc.logger.Info("batch prediction complete",
		slog.Int("rows", row),
		slog.Int("succeeded", len(results)),
		slog.Int("failed", len(rowErrors)),
	)

	if results == nil {
		results = []dto.PredictResponse{}
	}
	if rowErrors == nil {
		rowErrors = []dto.RowError{}
	}

	return dto.BatchResponse{
		Success:   true,
		Summary:   summary,
		Results:   results,
		RowErrors: rowErrors,
	}, nil
}

// resolveColumns maps required column names to their header positions.
func resolveColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	columns := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		idx, ok := positions[name]
		if !ok {
			return nil, &UpstreamError{Reason: fmt.Sprintf("missing required column %q", name)}
		}
		columns[name] = idx
	}
	return columns, nil
}

// decodeRow converts one CSV row into a PredictRequest using the resolved
// column positions.
func decodeRow(columns map[string]int, fields []string) (dto.PredictRequest, error) {
	get := func(name string) (string, error) {
		idx := columns[name]
		if idx >= len(fields) {
			return "", fmt.Errorf("%s: missing value", name)
		}
		return strings.TrimSpace(fields[idx]), nil
	}

	getInt := func(name string) (int, error) {
		raw, err := get(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid integer %q", name, raw)
		}
		return v, nil
	}

	getDecimal := func(name string) (decimal.Decimal, error) {
		raw, err := get(name)
		if err != nil {
			return decimal.Decimal{}, err
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%s: invalid number %q", name, raw)
		}
		return v, nil
	}

	var req dto.PredictRequest
	var err error

	if req.Tenure, err = getInt("tenure"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.MonthlyCharges, err = getDecimal("monthly_charges"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.TotalCharges, err = getDecimal("total_charges"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.ContractType, err = get("contract_type"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.PaymentMethod, err = get("payment_method"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.InternetService, err = get("internet_service"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.StreamingTV, err = getInt("streaming_tv"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.StreamingMovies, err = getInt("streaming_movies"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.TechSupport, err = getInt("tech_support"); err != nil {
		return dto.PredictRequest{}, err
	}
	if req.OnlineSecurity, err = getInt("online_security"); err != nil {
		return dto.PredictRequest{}, err
	}

	return req, nil
}
