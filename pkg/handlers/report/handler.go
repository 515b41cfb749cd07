package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nitshaW/sales-analytics/pkg/adapters"
	"github.com/nitshaW/sales-analytics/pkg/models/api"
	"github.com/nitshaW/sales-analytics/pkg/models/domain"
	"github.com/nitshaW/sales-analytics/pkg/services/pipeline"
	"github.com/nitshaW/sales-analytics/pkg/services/report"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type Handler struct {
	registry report.Registry
	runner   report.Runner
}

func NewHandler(registry report.Registry, runner report.Runner) *Handler {
	return &Handler{registry: registry, runner: runner}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	defs := h.registry.List()
	response := make([]api.Report, 0, len(defs))
	for _, def := range defs {
		response = append(response, adapters.MapDefinitionToApi(def))
	}
	writeJSON(r, w, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")
	def, err := h.registry.Get(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(r, w, http.StatusOK, adapters.MapDefinitionToApi(def))
}

func (h *Handler) GetFieldValues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "report")

	field := r.URL.Query().Get("field")
	if field == "" {
		http.Error(w, "missing field parameter", http.StatusBadRequest)
		return
	}

	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	values, err := h.runner.CandidateValues(ctx, name, domain.Field(field), req)
	if err != nil {
		h.writeRunError(w, r, name, err)
		return
	}

	writeJSON(r, w, http.StatusOK, api.FieldValues{Field: field, Values: values})
}

func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "report")

	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.runner.Run(ctx, name, req)
	if errors.Is(err, pipeline.ErrNoData) {
		// An empty slice is a valid outcome, distinct from a failed pass:
		// the client renders a "no data" state instead of an empty chart.
		writeJSON(r, w, http.StatusOK, api.ReportResult{Report: name, NoData: true})
		return
	}
	if err != nil {
		h.writeRunError(w, r, name, err)
		return
	}

	writeJSON(r, w, http.StatusOK, adapters.MapResultDomainToApi(result))
}

func (h *Handler) writeRunError(w http.ResponseWriter, r *http.Request, name string, err error) {
	logger := zerolog.Ctx(r.Context())

	var schemaErr *pipeline.SchemaError
	var fetchErr *pipeline.FetchError
	var groupErr *pipeline.InvalidGroupingError

	switch {
	case errors.As(err, &fetchErr):
		logger.Error().Err(err).Str("report", name).Msg("warehouse fetch failed")
		http.Error(w, "data source unavailable", http.StatusBadGateway)
	case errors.As(err, &schemaErr):
		logger.Error().Err(err).Str("report", name).Msg("source schema mismatch")
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.As(err, &groupErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case strings.Contains(err.Error(), "not registered"):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// parseRequest reads the filter state from query parameters: from/to dates,
// date_field, means, and one comma-separated values list per filter field.
func parseRequest(r *http.Request) (report.Request, error) {
	req := report.Request{
		Selections: make(map[domain.Field][]string),
	}

	q := r.URL.Query()
	for key, values := range q {
		switch key {
		case "from":
			t, err := time.Parse(dateLayout, values[0])
			if err != nil {
				return report.Request{}, err
			}
			req.From = &t
		case "to":
			t, err := time.Parse(dateLayout, values[0])
			if err != nil {
				return report.Request{}, err
			}
			req.To = &t
		case "date_field":
			req.DateField = domain.DateField(values[0])
		case "means":
			req.WantMeans = values[0] == "true" || values[0] == "1"
		case "field":
			// consumed by GetFieldValues
		default:
			var selected []string
			for _, v := range values {
				for _, part := range strings.Split(v, ",") {
					if part != "" {
						selected = append(selected, part)
					}
				}
			}
			if len(selected) > 0 {
				req.Selections[domain.Field(key)] = selected
			}
		}
	}

	if (req.From == nil) != (req.To == nil) {
		return report.Request{}, errors.New("from and to must be supplied together")
	}
	return req, nil
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
