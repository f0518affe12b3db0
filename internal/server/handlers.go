package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bobmcallan/stockbrief/internal/models"
	"github.com/bobmcallan/stockbrief/internal/storage"
)

const reportPathPrefix = "/api/stock/portfolio/report/"

// analyzeRequest is the body of POST /api/stock/analyze.
type analyzeRequest struct {
	StockName   string `json:"stock_name"`
	StockTicker string `json:"stock_ticker"`
}

// analyzeResponse is a StockReport plus the success flag.
type analyzeResponse struct {
	Success       bool              `json:"success"`
	StockName     string            `json:"stock_name"`
	StockTicker   string            `json:"stock_ticker"`
	LatestPrice   models.Price      `json:"latest_price"`
	Report        string            `json:"report"`
	Citations     []models.Citation `json:"citations"`
	FailureReason string            `json:"failure_reason,omitempty"`
}

type portfolioResponse struct {
	Success   bool                    `json:"success"`
	Portfolio []models.PortfolioEntry `json:"portfolio"`
	Summary   string                  `json:"summary"`
	Model     string                  `json:"model"`
	RiskLevel int                     `json:"risk_level"`
}

type portfolioReportResponse struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	Filename  string                  `json:"filename"`
	Portfolio []models.PortfolioEntry `json:"portfolio"`
}

// handleStockHealth handles GET /api/stock/health.
func (s *Server) handleStockHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Stock API server is running",
	})
}

// handleAnalyze handles POST /api/stock/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.StockName)
	ticker := strings.TrimSpace(req.StockTicker)
	if name == "" || ticker == "" {
		WriteError(w, http.StatusBadRequest, "종목명과 종목코드를 입력해주세요.")
		return
	}

	report := s.app.ReportService.Analyze(r.Context(), name, ticker)

	resp := analyzeResponse{
		Success:     true,
		StockName:   report.Name,
		StockTicker: report.Ticker,
		LatestPrice: report.LatestPrice,
		Report:      report.Content,
		Citations:   report.Citations,
	}
	if resp.Citations == nil {
		resp.Citations = []models.Citation{}
	}
	if report.Failure != nil {
		resp.FailureReason = string(report.Failure.Reason)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handlePortfolio handles POST /api/stock/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AllocationRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}

	overview, err := s.app.ReportService.Overview(r.Context(), req)
	if err != nil {
		s.logger.Error().Err(err).Str("model", req.Model).Msg("Portfolio composition failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, portfolioResponse{
		Success:   true,
		Portfolio: entriesOrEmpty(overview.Entries),
		Summary:   overview.Summary.Text,
		Model:     overview.Request.Model,
		RiskLevel: overview.Request.RiskLevel,
	})
}

// handlePortfolioReport handles POST /api/stock/portfolio/report.
func (s *Server) handlePortfolioReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AllocationRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}

	report, err := s.app.ReportService.Generate(r.Context(), req, "")
	if err != nil {
		s.logger.Error().Err(err).Str("model", req.Model).Msg("Report generation failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, portfolioReportResponse{
		Success:   true,
		Message:   "PDF 리포트가 생성되었습니다.",
		Filename:  report.Filename,
		Portfolio: entriesOrEmpty(report.Entries),
	})
}

// handleReportDownload handles GET /api/stock/portfolio/report/{filename}.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, reportPathPrefix)
	if err := storage.ValidateReportName(name); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid report name")
		return
	}

	rc, err := s.app.ReportStore.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			WriteError(w, http.StatusNotFound, "Report not found: "+name)
			return
		}
		s.logger.Error().Err(err).Str("filename", name).Msg("Failed to open report")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn().Err(err).Str("filename", name).Msg("Report download interrupted")
	}
}

// handleReportList handles GET /api/stock/portfolio/reports.
func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	names, err := s.app.ReportStore.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"reports": names,
	})
}

// handleSearch handles GET /api/stock/search?q=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stocks := models.SearchStocks(models.SampleStocks, r.URL.Query().Get("q"))
	if stocks == nil {
		stocks = []models.StockListing{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stocks":  stocks,
	})
}

func entriesOrEmpty(entries []models.PortfolioEntry) []models.PortfolioEntry {
	if entries == nil {
		return []models.PortfolioEntry{}
	}
	return entries
}
