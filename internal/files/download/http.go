// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download

import (
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/zip"

	"github.com/medscope/medscope/internal/files/storage"
	"github.com/medscope/medscope/internal/platform/constants"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/middleware"
	requestutil "github.com/medscope/medscope/internal/platform/request"
	"github.com/medscope/medscope/internal/platform/respond"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/pkg/pagination"
)

// Handler implements the download token endpoints.
type Handler struct {
	downloadService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{downloadService: service}
}

// Routes returns a [chi.Router] for /api/downloads.
//
// # Endpoints
//   - POST   /                : Issue a file token (session).
//   - POST   /folder          : Issue a folder token (session).
//   - GET    /                : List tokens (admin).
//   - DELETE /                : Delete every token (admin).
//   - GET    /file/{token}    : Redeem a file token (API key only).
//   - GET    /folder/{token}  : Redeem a folder token as a zip (API key only).
//
// Redemption routes stream whole documents and are not bound by the JSON request timeout.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(constants.GlobalRequestTimeout))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", handler.issueFile)
			r.Post("/folder", handler.issueFolder)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(sec.RoleAdmin))
			r.Get("/", handler.list)
			r.Delete("/", handler.deleteAll)
		})
	})

	router.Get("/file/{token}", handler.redeemFile)
	router.Get("/folder/{token}", handler.redeemFolder)

	return router
}

// issueRequest is the payload of both issuance endpoints.
type issueRequest struct {
	Path string `json:"path"`
}

/*
POST /api/downloads.

Request:
  - body: issueRequest

Response:
  - 201: IssuedDownload (token shown once, valid for one hour)
  - 400: Missing, absolute or escaping path
  - 401: authenticationRequired
*/
func (handler *Handler) issueFile(writer http.ResponseWriter, request *http.Request) {
	handler.issue(writer, request, KindFile)
}

/*
POST /api/downloads/folder.

Request:
  - body: issueRequest

Response:
  - 201: IssuedDownload
*/
func (handler *Handler) issueFolder(writer http.ResponseWriter, request *http.Request) {
	handler.issue(writer, request, KindFolder)
}

func (handler *Handler) issue(writer http.ResponseWriter, request *http.Request, kind Kind) {
	var input issueRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.downloadService.Issue(request.Context(), input.Path, kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, issued)
}

/*
GET /api/downloads?page=&limit=.

Response:
  - 200: []Download with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	downloads, meta, err := handler.downloadService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, downloads, meta)
}

/*
DELETE /api/downloads.

Response:
  - 204: Every token deleted
*/
func (handler *Handler) deleteAll(writer http.ResponseWriter, request *http.Request) {
	if _, err := handler.downloadService.DeleteAll(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/downloads/file/{token}.

Response:
  - 200: The file as an attachment
  - 403: tokenAlreadyUsed
  - 404: Unknown token or missing file
  - 410: tokenExpired
*/
func (handler *Handler) redeemFile(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)

	download, object, err := handler.downloadService.OpenFile(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer object.Body.Close()

	respond.Attachment(writer, object.Name, object.ContentType, object.Size)
	if _, err := io.Copy(writer, object.Body); err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "download_stream_interrupted",
			slog.String("download_id", download.ID),
			slog.Any("error", err),
		)
	}
}

/*
GET /api/downloads/folder/{token}.

Description: Streams every file beneath the folder as a deflated zip archive.

Response:
  - 200: application/zip attachment
  - 403: tokenAlreadyUsed
  - 404: Unknown token or empty folder
  - 410: tokenExpired
*/
func (handler *Handler) redeemFolder(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)
	token := requestutil.Param(request, FieldToken)

	download, entries, err := handler.downloadService.OpenFolder(ctx, token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Attachment(writer, path.Base(download.FilePath)+".zip", "application/zip", -1)

	archive := zip.NewWriter(writer)
	for _, entry := range entries {
		if err := handler.writeEntry(request, archive, download, entry); err != nil {
			logger.ErrorContext(ctx, "download_zip_entry_failed",
				slog.String("download_id", download.ID),
				slog.String("entry", entry.Path),
				slog.Any("error", err),
			)
			return
		}
	}

	if err := archive.Close(); err != nil {
		logger.WarnContext(ctx, "download_stream_interrupted",
			slog.String("download_id", download.ID),
			slog.Any("error", err),
		)
	}
}

// writeEntry copies one folder file into the archive.
func (handler *Handler) writeEntry(request *http.Request, archive *zip.Writer, download *Download, entry storage.Entry) error {
	object, err := handler.downloadService.OpenEntry(request.Context(), download, entry)
	if err != nil {
		return err
	}
	defer object.Body.Close()

	target, err := archive.CreateHeader(&zip.FileHeader{Name: entry.Path, Method: zip.Deflate})
	if err != nil {
		return err
	}

	_, err = io.Copy(target, object.Body)
	return err
}
