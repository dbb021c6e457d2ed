package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/toolkit"
)

type Scanner interface {
	Scan(ctx context.Context, host string) (*toolkit.ScanResult, error)
}

type IPLookup interface {
	Lookup(ctx context.Context, ip string) (map[string]any, error)
}

type DNSLookup interface {
	Lookup(ctx context.Context, domain string) (*toolkit.DNSRecords, error)
}

type CertChecker interface {
	Check(ctx context.Context, host string) (*toolkit.CertificateInfo, error)
}

type CommandRunner interface {
	Run(ctx context.Context, command string) (*toolkit.SystemResult, error)
}

// Toolkit groups the backends behind the /api routes
type Toolkit struct {
	Scanner Scanner
	Lookup  IPLookup
	DNS     DNSLookup
	SSL     CertChecker
	System  CommandRunner
}

// DefaultToolkit wires the real network tools
func DefaultToolkit() Toolkit {
	return Toolkit{
		Scanner: toolkit.NewPortScanner(),
		Lookup:  toolkit.NewIPLookup(),
		DNS:     toolkit.NewDNSLookup(),
		SSL:     toolkit.NewSSLChecker(),
		System:  toolkit.NewSystemRunner(),
	}
}

type Handlers struct {
	tools  Toolkit
	logger logging.Logger
}

type hostRequest struct {
	Host string `json:"host"`
}

type ipRequest struct {
	IP string `json:"ip"`
}

type domainRequest struct {
	Domain string `json:"domain"`
}

type systemRequest struct {
	Command string `json:"command"`
}

func RegisterRoutes(router *gin.Engine, tools Toolkit, log logging.Logger) {
	if log == nil {
		log = logging.NewAPILogger("toolkit")
	}
	h := &Handlers{tools: tools, logger: log}
	api := router.Group("/api")
	api.POST("/scan", h.httpScan)
	api.POST("/lookup", h.httpLookup)
	api.POST("/dns", h.httpDNS)
	api.POST("/ssl", h.httpSSL)
	api.POST("/system", h.httpSystem)
	api.GET("/tools", h.httpTools)
}

func (h *Handlers) httpScan(c *gin.Context) {
	var req hostRequest
	if !bindField(c, &req, func() string { return req.Host }, "Host parameter required") {
		return
	}
	result, err := h.tools.Scanner.Scan(c.Request.Context(), strings.TrimSpace(req.Host))
	if err != nil {
		h.logger.Warn("scan failed", "host", req.Host, "error", err, "request_id", c.GetString(requestIDHeader))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// httpLookup always answers 200; upstream failures become {"error": ...}
func (h *Handlers) httpLookup(c *gin.Context) {
	var req ipRequest
	if !bindField(c, &req, func() string { return req.IP }, "IP parameter required") {
		return
	}
	info, err := h.tools.Lookup.Lookup(c.Request.Context(), strings.TrimSpace(req.IP))
	if err != nil {
		h.logger.Warn("ip lookup failed", "ip", req.IP, "error", err, "request_id", c.GetString(requestIDHeader))
		c.JSON(http.StatusOK, gin.H{"error": toolkit.ErrLookupFailed.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handlers) httpDNS(c *gin.Context) {
	var req domainRequest
	if !bindField(c, &req, func() string { return req.Domain }, "Domain parameter required") {
		return
	}
	records, err := h.tools.DNS.Lookup(c.Request.Context(), strings.TrimSpace(req.Domain))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handlers) httpSSL(c *gin.Context) {
	var req hostRequest
	if !bindField(c, &req, func() string { return req.Host }, "Host parameter required") {
		return
	}
	info, err := h.tools.SSL.Check(c.Request.Context(), strings.TrimSpace(req.Host))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// httpSystem reports request-level rejections as {"error": true, "message": ...}
func (h *Handlers) httpSystem(c *gin.Context) {
	var req systemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Command parameter required"})
		return
	}

	result, err := h.tools.System.Run(c.Request.Context(), req.Command)
	if err != nil {
		var disallowed *toolkit.DisallowedError
		if errors.As(err, &disallowed) {
			c.JSON(http.StatusForbidden, gin.H{"error": true, "message": disallowed.Error()})
			return
		}
		h.logger.Error("system command failed", "command", req.Command, "error", err, "request_id", c.GetString(requestIDHeader))
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "failed to execute command"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) httpTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": toolkit.Catalog()})
}

// bindField decodes the JSON body and requires the field returned by get to be non-blank
func bindField(c *gin.Context, req any, get func() string, missing string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return false
	}
	if strings.TrimSpace(get()) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missing})
		return false
	}
	return true
}
