package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/giggleglory/backoffice/api/responses"
	"github.com/giggleglory/backoffice/internal/importer"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
	"github.com/giggleglory/backoffice/pkg/logger"
	"github.com/giggleglory/backoffice/pkg/types"
)

const (
	uploadField     = "file"
	multipartMemory = 8 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ImportService runs spreadsheet imports and renders their templates.
type ImportService interface {
	Import(ctx context.Context, entity string, data []byte) (*importer.Result, error)
	Template(entity string) ([]byte, error)
}

// UploadEntity imports the multipart "file" part into the entity named in the
// path. Bodies beyond maxBytes are rejected.
func UploadEntity(svc ImportService, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("import"))
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInvalidContentType, "Content-Type must be multipart/form-data"))
			return
		}

		data, err := readUpload(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entity := chi.URLParam(r, "entity")
		result, err := svc.Import(r.Context(), entity, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, types.UploadEnvelope{
			Status: types.StatusSuccess,
			Count:  result.Count,
			Rows:   result.Rows,
		})
	}
}

func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large").
				WithDetails(map[string]any{"maxBytes": maxBytes})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidContentType, err, "invalid multipart body")
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, pkgerrors.New(pkgerrors.CodeMissingFile, "No file uploaded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeMissingFile, err, "No file uploaded")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	return data, nil
}

// UploadTemplate downloads an empty workbook for the entity in the path.
func UploadTemplate(svc ImportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("import"))
			return
		}
		kind, err := importer.ParseEntityKind(chi.URLParam(r, "entity"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := svc.Template(string(kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.TemplateFilename(kind)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
