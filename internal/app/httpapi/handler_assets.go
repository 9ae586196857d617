package httpapi

import (
	"context"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/R3E-Network/asset_catalog/internal/app/domain/asset"
	"github.com/R3E-Network/asset_catalog/internal/app/services/publishing"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	"github.com/R3E-Network/asset_catalog/internal/logging"
	"github.com/R3E-Network/asset_catalog/internal/middleware"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// formFileField carries the uploaded asset file.
const formFileField = "assetFile"

func (h *handler) searchAssets(w http.ResponseWriter, r *http.Request) {
	opts, err := asset.ParseSearchOptions(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	results, err := h.app.Catalogue.Search(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handler) homeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.app.Catalogue.HomeSummary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handler) myAssets(w http.ResponseWriter, r *http.Request) {
	owned, err := h.app.Catalogue.Mine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, owned)
}

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.app.Catalogue.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handler) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.app.Ownership.Delete(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "message": "Asset deleted"})
}

// createAsset accepts either a multipart form with an optional assetFile or
// a JSON submission without a file.
func (h *handler) createAsset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemory)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var sub publishing.Submission
		if err := decodeJSON(r.Body, &sub); err != nil {
			h.writeError(w, r, err)
			return
		}
		h.publish(w, r, sub, "", userID)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, r, bodyError(err, "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	sub := submissionFromForm(r.MultipartForm.Value)
	// reject before storing the file so invalid submissions leave nothing behind
	if _, err := publishing.Normalize(sub, "", userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	fileRef := ""
	if headers := r.MultipartForm.File[formFileField]; len(headers) > 0 {
		if h.app.Uploads == nil {
			h.writeError(w, r, svcerrors.Validation("file uploads are disabled"))
			return
		}
		file, err := headers[0].Open()
		if err != nil {
			h.writeError(w, r, svcerrors.Validation("read %s: %v", formFileField, err))
			return
		}
		fileRef, err = h.app.Uploads.Save(r.Context(), headers[0].Filename, file)
		_ = file.Close()
		if err != nil {
			if svcerrors.GetServiceError(err) == nil {
				err = svcerrors.Internal("store upload", err)
			}
			h.writeError(w, r, err)
			return
		}
	}

	h.publish(w, r, sub, fileRef, userID)
}

func (h *handler) publish(w http.ResponseWriter, r *http.Request, sub publishing.Submission, fileRef, userID string) {
	created, err := h.app.Publishing.Publish(r.Context(), sub, fileRef, userID)
	if err != nil {
		if fileRef != "" && h.app.Uploads != nil {
			if rmErr := h.app.Uploads.Remove(context.WithoutCancel(r.Context()), fileRef); rmErr != nil {
				logging.Entry(r.Context(), h.log).WithError(rmErr).
					WithField("file", fileRef).
					Warn("failed to discard upload after rejected create")
			}
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func submissionFromForm(values map[string][]string) publishing.Submission {
	first := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	return publishing.Submission{
		Title:       first("title"),
		Description: first("description"),
		Category:    first("category"),
		FileFormats: first("fileFormats"),
		Engines:     publishing.FormValues(values["engines"]),
		Engine:      first("engine"),
		Tags:        publishing.FormValues(values["tags"]),
		SourceStore: first("sourceStore"),
		ExternalURL: first("externalUrl"),
		Price:       publishing.PriceText(first("price")),
		Thumbnail:   first("thumbnail"),
	}
}
