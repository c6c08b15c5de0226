package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
	"io/fs"
	"path"
	"strings"
)

const indexFile = "index.html"

// newDashboard serves the embedded single page app. Unknown paths without
// an extension fall back to index.html.
func newDashboard(files fs.FS) fiber.Handler {
	return static.New("", static.Config{
		FS:         files,
		IndexNames: []string{indexFile},
		ModifyResponse: func(ctx fiber.Ctx) error {
			if strings.HasPrefix(string(ctx.Response().Header.ContentType()), fiber.MIMETextHTML) {
				noCache(ctx)
			}
			return nil
		},
		NotFoundHandler: func(ctx fiber.Ctx) error {
			if path.Ext(ctx.Path()) != "" {
				return ctx.SendStatus(fiber.StatusNotFound)
			}
			body, err := fs.ReadFile(files, indexFile)
			if err != nil {
				return err
			}
			noCache(ctx)
			ctx.Type("html")
			return ctx.Status(fiber.StatusOK).Send(body)
		},
	})
}

// noCache keeps browsers from holding on to a stale dashboard.
func noCache(ctx fiber.Ctx) {
	ctx.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Set(fiber.HeaderPragma, "no-cache")
	ctx.Set(fiber.HeaderExpires, "0")
}
