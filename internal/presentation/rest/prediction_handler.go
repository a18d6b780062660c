package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/retainly/churn/internal/application/usecase"
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/pkg/auth"

	"github.com/retainly/churn/internal/application/dto"
)

const maxUploadBytes = 32 << 20

var predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "churn_predictions_total",
	Help: "Total predictions served, labeled by risk level.",
}, []string{"risk_level"})

// PredictionHandler exposes the scoring endpoints.
type PredictionHandler struct {
	predict *usecase.PredictCustomer
	batch   *usecase.BatchPredict
	get     *usecase.GetPrediction
	logger  *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(
	predict *usecase.PredictCustomer,
	batch *usecase.BatchPredict,
	get *usecase.GetPrediction,
	logger *slog.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		predict: predict,
		batch:   batch,
		get:     get,
		logger:  logger,
	}
}

func callerID(r *http.Request) uuid.UUID {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return uuid.Nil
}

// Predict handles POST /api/v1/predict.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.predict.Execute(r.Context(), callerID(r), req)
	if err != nil {
		if model.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("prediction failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	predictionsTotal.WithLabelValues(resp.RiskLevel).Inc()
	writeJSON(w, http.StatusOK, resp)
}

// BatchPredict handles POST /api/v1/batch_predict. The CSV is uploaded as a
// multipart form under the "file" field.
func (h *PredictionHandler) BatchPredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	resp, err := h.batch.Execute(r.Context(), callerID(r), file)
	if err != nil {
		if usecase.IsUpstreamError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("batch prediction failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "batch prediction failed")
		return
	}

	for _, result := range resp.Results {
		predictionsTotal.WithLabelValues(result.RiskLevel).Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPrediction handles GET /api/v1/predictions/{id}.
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prediction id")
		return
	}

	resp, err := h.get.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPredictionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("prediction lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "prediction lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// RegisterRoutes registers prediction routes on the provided ServeMux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/predict", h.Predict)
	mux.HandleFunc("POST /api/v1/batch_predict", h.BatchPredict)
	mux.HandleFunc("GET /api/v1/predictions/{id}", h.GetPrediction)
}
