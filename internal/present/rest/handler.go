package rest

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/artistdb/internal/config"
	"github.com/totegamma/artistdb/internal/domain"
	"github.com/totegamma/artistdb/internal/infra/storage"
	"github.com/totegamma/artistdb/internal/present/rest/middleware"
	"github.com/totegamma/artistdb/internal/present/rest/presenter"
	"github.com/totegamma/artistdb/internal/usecase"
)

// TemplateMissingMessage points the operator at the designer when no
// template has been saved.
const TemplateMissingMessage = "No certificate template saved yet. Go to /certificate-designer and click Save template."

// Realtime streams events until ctx is done.
type Realtime interface {
	Enabled() bool
	Realtime(ctx context.Context, output chan<- domain.Event)
}

type Handler struct {
	config      config.App
	artwork     *usecase.ArtworkUsecase
	box         *usecase.BoxUsecase
	certificate *usecase.CertificateUsecase
	template    *usecase.TemplateUsecase
	assets      usecase.AssetStore
	boxToken    *middleware.BoxTokenMiddleware
	signal      Realtime
}

func NewHandler(
	config config.App,
	artwork *usecase.ArtworkUsecase,
	box *usecase.BoxUsecase,
	certificate *usecase.CertificateUsecase,
	template *usecase.TemplateUsecase,
	assets usecase.AssetStore,
	boxToken *middleware.BoxTokenMiddleware,
	signal Realtime,
) *Handler {
	return &Handler{
		config:      config,
		artwork:     artwork,
		box:         box,
		certificate: certificate,
		template:    template,
		assets:      assets,
		boxToken:    boxToken,
		signal:      signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealth)

	e.GET("/artworks", h.handleListArtworks)
	e.POST("/artworks", h.handleCreateArtwork)
	e.POST("/artworks/bulk-update", h.handleBulkUpdate)
	e.GET("/artworks/:id", h.handleGetArtwork)
	e.PUT("/artworks/:id", h.handleUpdateArtwork)
	e.DELETE("/artworks/:id", h.handleDeleteArtwork)
	e.POST("/artworks/:id/image", h.handleSetImage)
	e.GET("/uploads/:name", h.handleUpload)

	e.GET("/artworks/:id/box", h.handleBoxPage, h.boxToken.IdentifyCapability)
	e.POST("/artworks/:id/box", h.handleBoxAppend, h.boxToken.IdentifyCapability)
	e.GET("/artworks/:id/box-label", h.handleBoxLabel)

	e.GET("/api/certificate-template", h.handleGetTemplate)
	e.POST("/api/certificate-template", h.handleSaveTemplate)
	e.GET("/api/certificate-template/preview", h.handleTemplatePreview)

	e.GET("/certificate-render/:id", h.handleCertificateRender)
	e.GET("/certificate/:id", h.handleCertificatePDF)
	e.GET("/certificate-print/:id", h.handleCertificatePDF)
	e.GET("/artworks/:id/certificate-render", h.handleCertificateRender)
	e.GET("/artworks/:id/certificate", h.handleCertificatePDF)
	e.GET("/artworks/:id/certificate-print", h.handleCertificatePDF)

	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func artworkID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto status codes.
func respondError(c echo.Context, err error) error {
	var validation domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		var nf domain.NotFoundError
		if errors.As(err, &nf) {
			return presenter.NotFound(c, nf.Error())
		}
		return presenter.NotFound(c, "not found")
	case errors.As(err, &validation):
		return presenter.BadRequestMessage(c, validation.Message)
	case errors.Is(err, domain.ErrTemplateMissing):
		return presenter.BadRequestText(c, TemplateMissingMessage)
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenExpired):
		return presenter.Forbidden(c, usecase.TokenErrorMessage)
	case errors.Is(err, domain.ErrNotAuthorised):
		return presenter.Forbidden(c, "Not authorised.")
	default:
		return presenter.InternalError(c, err)
	}
}

func (h *Handler) handleListArtworks(c echo.Context) error {
	ctx := c.Request().Context()

	artworks, err := h.artwork.List(ctx, c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, artworks)
}

func (h *Handler) handleGetArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	detail, err := h.artwork.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, detail)
}

// formImage returns the optional "image" file of a multipart request. The
// returned closer is always safe to call.
func formImage(c echo.Context) (*usecase.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, noop, nil
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if header.Filename == "" {
		return nil, noop, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &usecase.Upload{Filename: header.Filename, Body: file}, func() { file.Close() }, nil
}

func (h *Handler) handleCreateArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.ArtworkInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	image, done, err := formImage(c)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	defer done()

	artwork, err := h.artwork.Create(ctx, input, image)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.Created(c, artwork)
}

func (h *Handler) handleUpdateArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	var input usecase.ArtworkInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	image, done, err := formImage(c)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	defer done()

	artwork, err := h.artwork.Update(ctx, id, input, image)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, artwork)
}

func (h *Handler) handleSetImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	image, done, err := formImage(c)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	defer done()
	if image == nil {
		return presenter.BadRequestMessage(c, "image file is required")
	}

	artwork, err := h.artwork.SetImage(ctx, id, *image)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, artwork)
}

func (h *Handler) handleDeleteArtwork(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	if err := h.artwork.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleBulkUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.BulkUpdateInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	result, err := h.artwork.BulkUpdate(ctx, input)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{
		"success": true,
		"updated": result.Updated,
		"skipped": result.Skipped,
		"message": result.Message,
	})
}

func (h *Handler) handleUpload(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.Param("name")
	body, err := h.assets.Open(ctx, name)
	if errors.Is(err, domain.ErrAssetMissing) {
		return presenter.NotFound(c, "file not found")
	}
	if err != nil {
		return presenter.InternalError(c, err)
	}
	defer body.Close()

	return c.Stream(http.StatusOK, storage.ContentType(name), body)
}

type boxAppendRequest struct {
	Location string `json:"location" form:"location"`
	Note     string `json:"note" form:"note"`
}

func (h *Handler) handleBoxPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	page, err := h.box.Page(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, page)
}

func (h *Handler) handleBoxAppend(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	var req boxAppendRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if _, err := h.box.Append(ctx, id, req.Location, req.Note); err != nil {
		return respondError(c, err)
	}

	page, err := h.box.Page(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"success": true, "page": page})
}

// baseURL prefers the configured public URL and falls back to the request host.
func (h *Handler) baseURL(c echo.Context) string {
	if h.config.PublicBaseURL != "" {
		return strings.TrimRight(h.config.PublicBaseURL, "/")
	}
	return c.Scheme() + "://" + c.Request().Host
}

func (h *Handler) handleBoxLabel(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	pdf, err := h.box.Label(ctx, id, h.baseURL(c))
	if err != nil {
		var rendering *domain.RenderingError
		if errors.As(err, &rendering) {
			return renderFailure(c, "Box label", err)
		}
		return respondError(c, err)
	}
	return presenter.PDF(c, fmt.Sprintf("box_label_%d.pdf", id), pdf)
}

func (h *Handler) handleGetTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	tpl, err := h.template.Get(ctx)
	if err != nil {
		return respondError(c, err)
	}

	var updatedAt *string
	if !tpl.UpdatedAt.IsZero() {
		s := tpl.UpdatedAt.UTC().Format(time.RFC3339)
		updatedAt = &s
	}

	return presenter.OK(c, echo.Map{
		"id":          tpl.ID,
		"design_json": usecase.Design(tpl),
		"updated_at":  updatedAt,
		"version":     tpl.Version,
	})
}

func (h *Handler) handleSaveTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	var input usecase.TemplateInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	tpl, err := h.template.Save(ctx, input)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.OK(c, echo.Map{"ok": true, "version": tpl.Version})
}

func (h *Handler) handleTemplatePreview(c echo.Context) error {
	ctx := c.Request().Context()

	document, err := h.certificate.Preview(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.HTML(c, document)
}

func (h *Handler) handleCertificateRender(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	document, err := h.certificate.Document(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.HTML(c, document)
}

func (h *Handler) handleCertificatePDF(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := artworkID(c)
	if !ok {
		return presenter.BadRequestMessage(c, "invalid artwork id")
	}

	pdf, err := h.certificate.PDF(ctx, id)
	if err != nil {
		var rendering *domain.RenderingError
		if errors.As(err, &rendering) {
			return renderFailure(c, "Certificate", err)
		}
		return respondError(c, err)
	}
	return presenter.PDF(c, fmt.Sprintf("certificate_%d.pdf", id), pdf)
}

// renderFailure answers 500 in plain text; the full error is already logged.
func renderFailure(c echo.Context, what string, err error) error {
	return c.String(http.StatusInternalServerError, fmt.Sprintf(
		"%s PDF generation failed.\n\nCheck logs for the full details.\n\nError: %s\n",
		what, html.EscapeString(err.Error()),
	))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil || !h.signal.Enabled() {
		return presenter.Unavailable(c, "realtime events are disabled")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan domain.Event)
	go h.signal.Realtime(ctx, output)

	// the client only sends heartbeats; a read error means it went away
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.NextReader(); err != nil {
				var closeErr *websocket.CloseError
				if errors.As(err, &closeErr) {
					slog.DebugContext(
						ctx, "WebSocket closed",
						slog.String("error", closeErr.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-output:
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
