package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/render"
	"gopkg.in/yaml.v2"

	"dqcli/internal/dataset"
	apierrors "dqcli/internal/errors"
	"dqcli/internal/loader"
	"dqcli/internal/validation"
)

// ValidateHandler accepts a tabular file upload plus a rules document and
// returns the validation outcome.
type ValidateHandler struct {
	service       ValidationService
	logger        *slog.Logger
	maxUploadSize int64
	delimiter     rune
}

// NewValidateHandler creates a validate handler. A zero delimiter means
// comma.
func NewValidateHandler(service ValidationService, logger *slog.Logger, maxUploadSize int64, delimiter rune) *ValidateHandler {
	if delimiter == 0 {
		delimiter = ','
	}
	return &ValidateHandler{
		service:       service,
		logger:        logger.With(slog.String("handler", "validate")),
		maxUploadSize: maxUploadSize,
		delimiter:     delimiter,
	}
}

// ValidateResponse is the JSON body returned for a validation run.
type ValidateResponse struct {
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
	InputRows int      `json:"input_rows"`
	ValidRows int      `json:"valid_rows"`
}

// Handle processes POST /api/validate. The request is multipart/form-data
// with a "file" part (csv, json, xlsx) and a "rules" part containing the
// YAML rules document.
func (h *ValidateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		apierrors.WriteError(w, apierrors.ErrPayloadTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.WriteError(w, apierrors.NewValidationError("missing file upload"))
		return
	}
	defer file.Close()

	specs, apiErr := parseRules(r.FormValue("rules"))
	if apiErr != nil {
		apierrors.WriteError(w, apiErr)
		return
	}

	tbl, err := loadUpload(file, header.Filename, h.delimiter)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load upload",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.NewValidationError(err.Error()))
		return
	}

	outcome, err := h.service.Validate(ctx, tbl, specs)
	if err != nil {
		// Rule construction failed: the client sent bad configuration.
		apierrors.WriteError(w, apierrors.NewConfigurationError(err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "upload validated",
		slog.String("filename", header.Filename),
		slog.Bool("valid", outcome.IsValid),
		slog.Int("errors", len(outcome.Errors)))

	errs := outcome.Errors
	if errs == nil {
		errs = []string{}
	}
	render.JSON(w, r, ValidateResponse{
		IsValid:   outcome.IsValid,
		Errors:    errs,
		InputRows: tbl.NumRows(),
		ValidRows: outcome.Table.NumRows(),
	})
}

func parseRules(raw string) ([]validation.RuleSpec, *apierrors.APIError) {
	if raw == "" {
		return nil, apierrors.NewValidationError("missing rules document")
	}
	var file validation.RulesFile
	if err := yaml.Unmarshal([]byte(raw), &file); err != nil {
		return nil, apierrors.NewValidationError(fmt.Sprintf("malformed rules document: %v", err))
	}
	if len(file.Rules) == 0 {
		return nil, apierrors.NewValidationError("rules document defines no rules")
	}
	return file.Rules, nil
}

// loadUpload spools the upload to a temp file so the extension-based loader
// factory can handle it.
func loadUpload(file io.Reader, filename string, delimiter rune) (*dataset.Table, error) {
	ext := filepath.Ext(filename)
	tmp, err := os.CreateTemp("", "dqcli_upload_*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	ld, err := loader.ForFileDelimiter(tmp.Name(), delimiter)
	if err != nil {
		return nil, err
	}
	return ld.Load()
}
