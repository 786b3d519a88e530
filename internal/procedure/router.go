package procedure

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ChasLui/dokploy/internal/telemetry"
)

const tracerName = "dokploy/procedure"

// maxInputBytes bounds mutation bodies.
const maxInputBytes = 1 << 20

// Handler dispatches HTTP requests to registered procedures. It is
// mounted behind the authentication gateway and therefore assumes every
// request reaching it has already been resolved to a user.
type Handler struct {
	registry  *Registry
	validator *InputValidator
	metrics   *telemetry.Metrics
}

// NewHandler creates the procedure dispatch handler.
func NewHandler(registry *Registry, validator *InputValidator, metrics *telemetry.Metrics) *Handler {
	return &Handler{registry: registry, validator: validator, metrics: metrics}
}

// Routes returns the chi router for the procedure surface. Procedures
// are addressed as /<domain>.<op> relative to the mount point.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.HandleFunc("/{procedure}", h.Dispatch)
	return r
}

// Dispatch routes a single request to its procedure. Exposed so the
// server can register it alongside static routes on its own router.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")

	proc, ok := h.registry.Get(name)
	if !ok {
		h.writeError(w, name, http.StatusNotFound, "Procedure not found")
		return
	}

	switch proc.Kind {
	case KindQuery:
		if r.Method != http.MethodGet {
			h.writeError(w, name, http.StatusMethodNotAllowed, "Queries must use GET")
			return
		}
	case KindMutation:
		if r.Method != http.MethodPost {
			h.writeError(w, name, http.StatusMethodNotAllowed, "Mutations must use POST")
			return
		}
	}

	ctx, span := telemetry.StartSpan(r.Context(), tracerName, "procedure.dispatch",
		attribute.String(telemetry.AttrProcedureName, name),
		attribute.String(telemetry.AttrProcedureKind, string(proc.Kind)),
	)
	defer span.End()

	input, err := h.decodeInput(r, proc.Kind)
	if err != nil {
		h.writeError(w, name, http.StatusBadRequest, "Malformed input")
		return
	}

	if err := h.validator.Validate(proc.InputSchema, input); err != nil {
		telemetry.AddEvent(span, "input.rejected", attribute.String("error", err.Error()))
		h.writeError(w, name, http.StatusBadRequest, "Invalid input")
		return
	}

	result, err := proc.Handler(ctx, input)
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			log.Printf("procedure %s: %v", name, err)
			telemetry.RecordError(span, err)
		}
		h.writeError(w, name, status, messageOf(err))
		return
	}

	h.count(name, http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if result == nil {
		result = map[string]interface{}{}
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("procedure %s: encode response: %v", name, err)
	}
}

// decodeInput builds the generic input map. Queries carry input in the
// query string (values stay strings, so query schemas declare string
// types), mutations in a JSON object body.
func (h *Handler) decodeInput(r *http.Request, kind Kind) (map[string]interface{}, error) {
	input := map[string]interface{}{}

	if kind == KindQuery {
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				input[key] = values[0]
			}
		}
		return input, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxInputBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return input, nil
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, errors.New("body is not a JSON object")
	}
	return input, nil
}

func (h *Handler) writeError(w http.ResponseWriter, name string, status int, message string) {
	h.count(name, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func (h *Handler) count(name string, status int) {
	if h.metrics == nil {
		return
	}
	h.metrics.ProcedureCalls.WithLabelValues(name, strconv.Itoa(status)).Inc()
}
