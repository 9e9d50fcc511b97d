package handlers

import (
	stderrors "errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"events-webapp/auth"
	"events-webapp/database"
	"events-webapp/errors"
	"events-webapp/messages"
	"events-webapp/middleware"
	"events-webapp/storage"
	"events-webapp/views"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"github.com/yuin/goldmark"
)

// Handler carries what the route handlers share.
type Handler struct {
	Cols       *database.Collections
	Auth       *auth.Provider
	Pages      *views.Pages
	Uploader   *storage.Uploader
	Messages   messages.Translator
	Markdown   goldmark.Markdown
	SessionTTL time.Duration
	Now        func() time.Time
}

func New(cols *database.Collections, provider *auth.Provider, uploader *storage.Uploader, translator messages.Translator, sessionTTL time.Duration) *Handler {
	return &Handler{
		Cols:       cols,
		Auth:       provider,
		Pages:      views.NewPages(cols),
		Uploader:   uploader,
		Messages:   translator,
		Markdown:   goldmark.New(),
		SessionTTL: sessionTTL,
		Now:        time.Now,
	}
}

func GetPing(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// t translates key for the language the request asks for.
func (h *Handler) t(c *fiber.Ctx, key string, data map[string]any) string {
	return h.Messages.T(c.Get(fiber.HeaderAcceptLanguage), key, data)
}

func (h *Handler) translate(c *fiber.Ctx, p *views.Placeholder) {
	p.Translate(h.Messages, c.Get(fiber.HeaderAcceptLanguage))
}

// session returns the page state of the signed-in admin.
func (h *Handler) session(c *fiber.Ctx) *views.Session {
	identity, _ := middleware.Identity(c)
	return h.Pages.For(identity.Email)
}

// refresh reports whether a list request reloads the page data. A request without
// filter keys is a page load; filter changes always send event or status, even empty,
// and are served from the page cache.
func refresh(c *fiber.Ctx) bool {
	if c.Query("refresh") == "1" {
		return true
	}
	args := c.Context().QueryArgs()
	return !args.Has("event") && !args.Has("status")
}

// storeError answers a failed store call: missing records become 404 with
// the notFound message, anything else is logged and reported as 500.
func (h *Handler) storeError(c *fiber.Ctx, err error, notFound string) error {
	if stderrors.Is(err, database.ErrNotFound) || stderrors.Is(err, views.ErrNotLoaded) {
		return errors.RaiseNotFoundError(c, h.t(c, notFound, nil))
	}
	log.Printf("handlers: %s %s: %v", c.Method(), c.Path(), err)
	return errors.RaiseInternalServerError(c, fmt.Sprint(err))
}

func (h *Handler) invalidForm(c *fiber.Ctx, fields []string) error {
	return errors.RaiseError(c, fiber.StatusBadRequest, h.t(c, messages.FormInvalid, nil), fields)
}

// formFile opens an optional multipart file. The returned close func is never nil.
func formFile(c *fiber.Ctx, field string) (*storage.File, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if stderrors.Is(err, fasthttp.ErrMissingFile) || stderrors.Is(err, fasthttp.ErrNoMultipartForm) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	return openFile(header)
}

func openFile(header *multipart.FileHeader) (*storage.File, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	file := &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Reader:      f,
	}
	return file, func() { f.Close() }, nil
}

// logProgress reports upload progress in the server log.
func logProgress(name string) storage.ProgressFunc {
	return func(percent float64) {
		log.Printf("handlers: uploading %s: %.0f%%", name, percent)
	}
}
