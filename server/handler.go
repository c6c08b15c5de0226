package server

import (
	"context"
	"errors"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go-reconx/database"
	"go-reconx/models"
	"go-reconx/plugin"
	"go-reconx/report"
	"go-reconx/resolver"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
)

// Handler defines an HTTP handler.
type Handler struct {
	pm       *plugin.Manager    // pm defines the *plugin.Manager used in operations.
	reports  *report.Generator  // Nil disables report generation.
	resolver *resolver.Resolver // Builds the dashboard links.

	ctx  context.Context // Lifetime of the server, scans stop with it.
	busy atomic.Bool
}

// ScanHandler defines the handler for the /api/scan endpoint.
func (h *Handler) ScanHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	// A missing or malformed body counts as an empty target.
	var data ScanRequestAPI
	if err := ctx.Bind().Body(&data); err != nil {
		logrus.Debugf("Ignoring scan request body: %v", err)
		data = ScanRequestAPI{}
	}

	target := strings.TrimSpace(data.Target)
	if target == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(targetRequired{Error: "Target is required"})
	}

	if !h.busy.CompareAndSwap(false, true) {
		br.Message = ErrScanBusy.Error()
		return ctx.Status(fiber.StatusConflict).JSON(br)
	}
	defer h.busy.Store(false)

	result, err := h.pm.Scan(h.ctx, target)
	if err != nil {
		logrus.WithError(err).Errorf("Scan of %s failed", target)
		br.Message = "Scan failed."
		if errors.Is(err, resolver.ErrEmptyHost) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(br)
	}

	if h.reports != nil {
		name, err := h.reports.Generate(h.ctx, report.FromResult(result))
		if err != nil {
			logrus.WithError(err).Warn("Couldn't generate report")
		} else {
			result.Report = ctx.BaseURL() + "/reports/" + name
		}
	}

	// Save results in database
	if err := h.pm.SaveScan(result); err != nil {
		br.Message = "Unexpected internal error occurred."
		logrus.WithError(err).Error("Couldn't save scan")
		return ctx.Status(fiber.StatusInternalServerError).JSON(br)
	}

	return ctx.Status(fiber.StatusOK).JSON(result)
}

// ResolveHandler defines the handler for the /api/resolve endpoint.
func (h *Handler) ResolveHandler(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(h.resolver.Resolve(ctx.Query("target")))
}

// HistoryHandler defines the handler for the /api/scans endpoint.
func (h *Handler) HistoryHandler(ctx fiber.Ctx) error {
	limit := 20
	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(response{Error: true, Message: "Invalid limit."})
		}
		limit = n
	}

	scans, err := h.pm.History(limit)
	if err != nil {
		logrus.WithError(err).Error("Couldn't list scans")
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{Error: true, Message: "Unexpected internal error occurred."})
	}
	return ctx.Status(fiber.StatusOK).JSON(ScanHistory{Scans: scans})
}

// ScanDetailHandler defines the handler for the /api/scans/:id endpoint.
func (h *Handler) ScanDetailHandler(ctx fiber.Ctx) error {
	scan, err := h.pm.FindScan(ctx.Params("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(response{Error: true, Message: "Scan not found."})
	}
	if err != nil {
		logrus.WithError(err).Error("Couldn't load scan")
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{Error: true, Message: "Unexpected internal error occurred."})
	}
	return ctx.Status(fiber.StatusOK).JSON(scan)
}

// SettingsHandler defines the handler for /api/settings endpoint.
func (h *Handler) SettingsHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	var data models.SettingsAPI

	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	// Reconfigure settings based on user preferences
	if err := h.pm.Settings(data); err != nil {
		logrus.WithError(err).Warn("Couldn't apply settings")
		br.Message = "An error occurred during applying settings."
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	return ctx.SendStatus(fiber.StatusOK)
}

// EnabledPluginsHandler defines the handler for /api/plugins endpoint.
func (h *Handler) EnabledPluginsHandler(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(EnabledPlugins{
		Plugins: h.pm.Count(),
		Names:   h.pm.Names(),
	})
}

// ReportsHandler defines the handler for /api/reports endpoint.
func (h *Handler) ReportsHandler(ctx fiber.Ctx) error {
	names := []string{}
	if h.reports != nil {
		list, err := h.reports.List()
		if err != nil {
			logrus.WithError(err).Error("Couldn't list reports")
			return ctx.Status(fiber.StatusInternalServerError).JSON(response{Error: true, Message: "Unexpected internal error occurred."})
		}
		names = append(names, list...)
	}
	return ctx.Status(fiber.StatusOK).JSON(ReportList{Reports: names})
}

// ReportFileHandler serves a generated PDF from the report directory.
func (h *Handler) ReportFileHandler(ctx fiber.Ctx) error {
	notFound := response{Error: true, Message: "Report not found."}
	if h.reports == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(notFound)
	}

	path, err := h.reports.Path(ctx.Params("name"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(notFound)
	}
	if _, err := os.Stat(path); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(notFound)
	}
	if path, err = filepath.Abs(path); err != nil {
		return err
	}

	return ctx.SendFile(path)
}
