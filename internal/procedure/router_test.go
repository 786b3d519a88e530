package procedure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, procedures ...Procedure) http.Handler {
	t.Helper()

	registry := NewRegistry()
	for _, p := range procedures {
		registry.Register(p)
	}
	validator, err := NewInputValidator(16)
	require.NoError(t, err)
	return NewHandler(registry, validator, nil).Routes()
}

func TestRegistry_RejectsBadNames(t *testing.T) {
	registry := NewRegistry()
	handler := func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
		return nil, nil
	}

	assert.Panics(t, func() {
		registry.Register(Procedure{Name: "noDomain", Kind: KindQuery, Handler: handler})
	})
	assert.Panics(t, func() {
		registry.Register(Procedure{Name: "a.b", Kind: "stream", Handler: handler})
	})

	registry.Register(Procedure{Name: "a.b", Kind: KindQuery, Handler: handler})
	assert.Panics(t, func() {
		registry.Register(Procedure{Name: "a.b", Kind: KindQuery, Handler: handler})
	})
}

func TestDispatch_Query(t *testing.T) {
	handler := newTestHandler(t, Procedure{
		Name: "registry.one",
		Kind: KindQuery,
		InputSchema: `{
			"type": "object",
			"properties": {"registryId": {"type": "string", "minLength": 1}},
			"required": ["registryId"]
		}`,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			return map[string]string{"registryId": input["registryId"].(string)}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/registry.one?registryId=reg-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "reg-1", body["registryId"])
}

func TestDispatch_QueryRejectsPost(t *testing.T) {
	handler := newTestHandler(t, Procedure{
		Name: "registry.all",
		Kind: KindQuery,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			return []string{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/registry.all", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDispatch_MutationValidatesInput(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"databaseId": {"type": "string", "minLength": 1},
			"externalPort": {"type": "integer", "minimum": 1, "maximum": 65535}
		},
		"required": ["databaseId", "externalPort"]
	}`
	handler := newTestHandler(t, Procedure{
		Name:        "postgres.saveExternalPort",
		Kind:        KindMutation,
		InputSchema: schema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			return map[string]bool{"saved": true}, nil
		},
	})

	// Valid input
	req := httptest.NewRequest(http.MethodPost, "/postgres.saveExternalPort",
		strings.NewReader(`{"databaseId": "db-1", "externalPort": 5432}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Port out of range
	req = httptest.NewRequest(http.MethodPost, "/postgres.saveExternalPort",
		strings.NewReader(`{"databaseId": "db-1", "externalPort": 99999}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing field
	req = httptest.NewRequest(http.MethodPost, "/postgres.saveExternalPort",
		strings.NewReader(`{"databaseId": "db-1"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatch_UnknownProcedure(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/nothing.here", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Procedure not found", body["message"])
}

func TestDispatch_MalformedBody(t *testing.T) {
	handler := newTestHandler(t, Procedure{
		Name: "registry.create",
		Kind: KindMutation,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/registry.create", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatch_HandlerErrors(t *testing.T) {
	handler := newTestHandler(t,
		Procedure{
			Name: "registry.missing",
			Kind: KindQuery,
			Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
				return nil, NotFound("Registry not found")
			},
		},
		Procedure{
			Name: "registry.broken",
			Kind: KindQuery,
			Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
				return nil, errors.New("pq: connection reset")
			},
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/registry.missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Internal failures are masked.
	req = httptest.NewRequest(http.MethodGet, "/registry.broken", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestDecodeInput_WeakTyping(t *testing.T) {
	type portInput struct {
		DatabaseID   string `json:"databaseId"`
		ExternalPort int    `json:"externalPort"`
	}

	var in portInput
	err := DecodeInput(map[string]interface{}{
		"databaseId":   "db-1",
		"externalPort": "5432",
	}, &in)
	require.NoError(t, err)
	assert.Equal(t, "db-1", in.DatabaseID)
	assert.Equal(t, 5432, in.ExternalPort)
}
