// Package handlers exposes the billing pipeline over HTTP.
package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jalad-shrimali/cdr-billing/billing"
	"github.com/jalad-shrimali/cdr-billing/cdr"
	"github.com/jalad-shrimali/cdr-billing/export"
	"github.com/jalad-shrimali/cdr-billing/pipeline"
	"github.com/jalad-shrimali/cdr-billing/tariff"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler keeps the last uploaded call set in memory and prices it against
// the tariff store on every read.
type Handler struct {
	tariffs   *tariff.Store
	maxUpload int64

	mu      sync.RWMutex
	dataset []cdr.NormalizedCall
	loaded  bool

	tariffMu sync.Mutex // serializes PUT read-modify-write
}

func New(store *tariff.Store, maxUploadBytes int64) *Handler {
	return &Handler{tariffs: store, maxUpload: maxUploadBytes}
}

// NewRouter builds the engine with recovery, request IDs and request logging.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(requestLogMiddleware())
	r.MaxMultipartMemory = h.maxUpload
	h.Register(r)
	return r
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	api.POST("/cdr", h.UploadCDR)
	api.GET("/report", h.Report)
	api.GET("/report.xlsx", h.ReportWorkbook)
	api.GET("/tariff", h.GetTariff)
	api.PUT("/tariff", h.PutTariff)
	api.GET("/extensions/:ext/calls", h.ExtensionCalls)
}

/* ──────────── responses ──────────── */

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type reportResponse struct {
	Report billing.BillingReport `json:"report"`
	Stats  billing.CallStats     `json:"stats"`
	Calls  []cdr.NormalizedCall  `json:"calls,omitempty"`
}

type extensionCallsResponse struct {
	Extension string               `json:"extension"`
	Stats     billing.CallStats    `json:"stats"`
	Calls     []cdr.NormalizedCall `json:"calls"`
}

func writeErr(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": apiError{Code: code, Message: msg}})
}

// writeUploadErr reports a hit on the body size cap as 413, anything else as 400.
func writeUploadErr(c *gin.Context, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeErr(c, http.StatusRequestEntityTooLarge, "too_large",
			"upload exceeds "+strconv.FormatInt(tooBig.Limit, 10)+" bytes")
		return
	}
	writeErr(c, http.StatusBadRequest, "bad_request", err.Error())
}

/* ──────────── endpoints ──────────── */

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadCDR runs an export through the pipeline and makes it the current dataset.
func (h *Handler) UploadCDR(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	rd, closer, multipart, err := getUploadReader(c.Request, "file")
	if err != nil {
		writeUploadErr(c, err)
		return
	}
	defer closer.Close()

	data, err := io.ReadAll(rd)
	if err != nil {
		writeUploadErr(c, err)
		return
	}
	if !multipart && len(data) == 0 {
		writeErr(c, http.StatusBadRequest, "bad_request", "request body is empty")
		return
	}

	res, err := pipeline.RunBytes(data, h.tariffs.Snapshot())
	if errors.Is(err, pipeline.ErrEmptyInput) {
		writeErr(c, http.StatusUnprocessableEntity, "empty_input", err.Error())
		return
	}
	if err != nil {
		writeErr(c, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	h.mu.Lock()
	h.dataset, h.loaded = res.Calls, true
	h.mu.Unlock()

	slog.Info("cdr uploaded",
		"request_id", c.GetString(requestIDKey),
		"bytes", len(data),
		"calls", len(res.Calls),
		"extensions", len(res.Report.Extensions))

	out := reportResponse{Report: res.Report, Stats: res.Stats}
	if collectCalls(c) {
		out.Calls = res.Calls
	}
	c.JSON(http.StatusOK, out)
}

// Report reprices the current dataset with the current tariff.
func (h *Handler) Report(c *gin.Context) {
	res, ok := h.rebill(c)
	if !ok {
		return
	}
	out := reportResponse{Report: res.Report, Stats: res.Stats}
	if collectCalls(c) {
		out.Calls = res.Calls
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ReportWorkbook(c *gin.Context) {
	res, ok := h.rebill(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, res); err != nil {
		slog.Error("workbook export failed", "request_id", c.GetString(requestIDKey), "err", err)
		writeErr(c, http.StatusInternalServerError, "internal", "could not render workbook")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cdr-report.xlsx"`)
	c.Data(http.StatusOK, xlsxMime, buf.Bytes())
}

func (h *Handler) GetTariff(c *gin.Context) {
	c.JSON(http.StatusOK, h.tariffs.Snapshot())
}

// PutTariff overlays the posted fields onto the current tariff. Values may be
// JSON numbers or strings; anything that does not parse as a number is 0.
func (h *Handler) PutTariff(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		writeErr(c, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case float64:
			fields[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			fields[k] = v
		default:
			fields[k] = ""
		}
	}

	h.tariffMu.Lock()
	cfg := h.tariffs.Replace(tariff.ParseFields(fields, h.tariffs.Snapshot()))
	h.tariffMu.Unlock()

	slog.Info("tariff replaced", "request_id", c.GetString(requestIDKey), "tariff", cfg)
	c.JSON(http.StatusOK, cfg)
}

// ExtensionCalls lists the calls placed from or to one extension.
func (h *Handler) ExtensionCalls(c *gin.Context) {
	calls, ok := h.current(c)
	if !ok {
		return
	}
	ext := strings.TrimSpace(c.Param("ext"))
	list := billing.CallsForExtension(calls, ext)
	if list == nil {
		list = []cdr.NormalizedCall{}
	}
	c.JSON(http.StatusOK, extensionCallsResponse{
		Extension: ext,
		Stats:     billing.ComputeStats(list),
		Calls:     list,
	})
}

/* ──────────── helpers ──────────── */

func (h *Handler) current(c *gin.Context) ([]cdr.NormalizedCall, bool) {
	h.mu.RLock()
	calls, loaded := h.dataset, h.loaded
	h.mu.RUnlock()
	if !loaded {
		writeErr(c, http.StatusNotFound, "no_data", "no CDR export has been uploaded")
		return nil, false
	}
	return calls, true
}

func (h *Handler) rebill(c *gin.Context) (pipeline.Result, bool) {
	calls, ok := h.current(c)
	if !ok {
		return pipeline.Result{}, false
	}
	return pipeline.Rebill(calls, h.tariffs.Snapshot()), true
}

func collectCalls(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("collect_calls", "false"))
	return err == nil && v
}
