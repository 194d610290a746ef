package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dqcli/internal/dataset"
	"dqcli/internal/validation"
)

type stubService struct {
	outcome validation.Outcome
	err     error
	specs   []validation.RuleSpec
	tbl     *dataset.Table
}

func (s *stubService) Validate(_ context.Context, tbl *dataset.Table, specs []validation.RuleSpec) (validation.Outcome, error) {
	s.specs = specs
	s.tbl = tbl
	if s.err != nil {
		return validation.Outcome{}, s.err
	}
	if s.outcome.Table == nil {
		s.outcome.Table = tbl
	}
	return s.outcome, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const rulesYAML = `
rules:
  - type: numeric
    columns: [temperature]
    min: 0
    max: 50
`

func multipartBody(t *testing.T, filename, fileContent, rules string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, fileContent)
		require.NoError(t, err)
	}
	if rules != "" {
		require.NoError(t, mw.WriteField("rules", rules))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postValidate(t *testing.T, h *ValidateHandler, filename, fileContent, rules string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, fileContent, rules)
	req := httptest.NewRequest(http.MethodPost, "/api/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestValidateHandler(t *testing.T) {
	const csvContent = "date,temperature\n2023-01-01,25.5\n2023-01-02,60\n"

	t.Run("valid upload", func(t *testing.T) {
		svc := &stubService{outcome: validation.Outcome{IsValid: true}}
		h := NewValidateHandler(svc, testLogger(), 1<<20, ',')

		rec := postValidate(t, h, "data.csv", csvContent, rulesYAML)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ValidateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.IsValid)
		assert.Empty(t, resp.Errors)
		assert.Equal(t, 2, resp.InputRows)
		assert.Equal(t, 2, resp.ValidRows)

		require.Len(t, svc.specs, 1)
		assert.Equal(t, "numeric", svc.specs[0].Type)
	})

	t.Run("defects are returned in order", func(t *testing.T) {
		dropped := dataset.New([]string{"date", "temperature"})
		require.NoError(t, dropped.AppendRow(dataset.Text("2023-01-01"), dataset.Number(25.5)))
		svc := &stubService{outcome: validation.Outcome{
			IsValid: false,
			Table:   dropped,
			Errors:  []string{"Row 1: Value 60 is greater than maximum 50 in column 'temperature'"},
		}}
		h := NewValidateHandler(svc, testLogger(), 1<<20, ',')

		rec := postValidate(t, h, "data.csv", csvContent, rulesYAML)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ValidateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.IsValid)
		assert.Equal(t, []string{"Row 1: Value 60 is greater than maximum 50 in column 'temperature'"}, resp.Errors)
		assert.Equal(t, 2, resp.InputRows)
		assert.Equal(t, 1, resp.ValidRows)
	})

	t.Run("missing file part", func(t *testing.T) {
		h := NewValidateHandler(&stubService{}, testLogger(), 1<<20, ',')

		rec := postValidate(t, h, "", "", rulesYAML)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing file upload")
	})

	t.Run("missing rules part", func(t *testing.T) {
		h := NewValidateHandler(&stubService{}, testLogger(), 1<<20, ',')

		rec := postValidate(t, h, "data.csv", csvContent, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing rules document")
	})

	t.Run("malformed rules document", func(t *testing.T) {
		h := NewValidateHandler(&stubService{}, testLogger(), 1<<20, ',')

		rec := postValidate(t, h, "data.csv", csvContent, "rules: [{type: numeric")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "malformed rules document")
	})

	t.Run("unsupported upload extension", func(t *testing.T) {
		h := NewValidateHandler(&stubService{}, testLogger(), 1<<20, ',')

		rec := postValidate(t, h, "data.parquet", "binary", rulesYAML)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unsupported file format")
	})

	t.Run("bad rule configuration is a 422", func(t *testing.T) {
		svc := &stubService{err: fmt.Errorf("numeric rule: min 10 is greater than max 5")}
		h := NewValidateHandler(svc, testLogger(), 1<<20, ',')

		rec := postValidate(t, h, "data.csv", csvContent, rulesYAML)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_CONFIGURATION")
	})

	t.Run("configured delimiter applies to uploads", func(t *testing.T) {
		svc := &stubService{outcome: validation.Outcome{IsValid: true}}
		h := NewValidateHandler(svc, testLogger(), 1<<20, ';')

		rec := postValidate(t, h, "data.csv", "date;temperature\n2023-01-01;25.5\n", rulesYAML)

		require.Equal(t, http.StatusOK, rec.Code)
		// Under the comma default the upload would load as one mangled
		// column instead of two.
		require.NotNil(t, svc.tbl)
		assert.Equal(t, []string{"date", "temperature"}, svc.tbl.Columns())
	})

	t.Run("oversized upload", func(t *testing.T) {
		h := NewValidateHandler(&stubService{}, testLogger(), 64, ',')

		rec := postValidate(t, h, "data.csv", csvContent, rulesYAML)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(testLogger(), "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "1.2.3", resp["version"])
	assert.NotEmpty(t, resp["timestamp"])
}
