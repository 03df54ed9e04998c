package server

import (
	"net/http"

	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/link"
	"github.com/bayneri/lossbudget/internal/metrics"
	"github.com/bayneri/lossbudget/internal/standards"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

const (
	endpointBudget      = "budget"
	endpointWavelengths = "wavelengths"
)

// BudgetRequest is the body of POST /api/v1/budget.
type BudgetRequest struct {
	Reference      string         `json:"reference,omitempty"`
	SafetyMarginDb *float64       `json:"safetyMarginDb,omitempty"`
	Override       *link.Override `json:"override,omitempty"`
	Segments       []link.Segment `json:"segments"`
}

func (b *BudgetRequest) Bind(r *http.Request) error {
	if len(b.Segments) == 0 {
		return &budget.InputError{Field: "segments", Reason: "must contain at least one segment"}
	}
	return nil
}

func (b *BudgetRequest) toBudget() (budget.Request, error) {
	doc := link.Document{
		Reference:      b.Reference,
		SafetyMarginDb: b.SafetyMarginDb,
		Override:       b.Override,
		Segments:       b.Segments,
	}
	return doc.Request()
}

type BudgetResponse struct {
	Status string `json:"status"`
	budget.Breakdown
}

func (BudgetResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// WavelengthsRequest is the body of POST /api/v1/wavelengths. The segment's
// wavelength is ignored.
type WavelengthsRequest struct {
	link.Segment
}

func (w *WavelengthsRequest) Bind(r *http.Request) error {
	return nil
}

type WavelengthsResponse struct {
	Fiber       standards.FiberType     `json:"fiber"`
	DistanceKm  float64                 `json:"distanceKm"`
	Wavelengths []budget.WavelengthLoss `json:"wavelengths"`
}

func (WavelengthsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type FiberResponse struct {
	ID standards.FiberType `json:"id"`
	standards.Profile
	Budgets []standards.Budget `json:"budgets"`
}

func (FiberResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (HealthResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, HealthResponse{Status: "ok"})
}

func (s *Server) listFibers(w http.ResponseWriter, r *http.Request) {
	table := s.calc.Table()
	var list []render.Renderer
	for _, id := range table.FiberTypes() {
		list = append(list, fiberResponse(id, table[id]))
	}
	_ = render.RenderList(w, r, list)
}

func (s *Server) getFiber(w http.ResponseWriter, r *http.Request) {
	id := standards.ParseFiberType(chi.URLParam(r, "fiber"))
	profile, err := s.calc.Table().Profile(id)
	if err != nil {
		_ = render.Render(w, r, errNotFound(err))
		return
	}
	_ = render.Render(w, r, fiberResponse(id, profile))
}

func fiberResponse(id standards.FiberType, p standards.Profile) FiberResponse {
	return FiberResponse{ID: id, Profile: p, Budgets: p.BudgetList()}
}

func (s *Server) computeBudget(w http.ResponseWriter, r *http.Request) {
	var body BudgetRequest
	if err := render.Bind(r, &body); err != nil {
		s.reject(w, r, endpointBudget, bindError(err))
		return
	}
	req, err := body.toBudget()
	if err != nil {
		s.reject(w, r, endpointBudget, err)
		return
	}
	breakdown, err := s.calc.ComputeLossBudget(req)
	if err != nil {
		s.reject(w, r, endpointBudget, err)
		return
	}
	status := breakdown.Status()
	s.metrics.ObserveCalculation(endpointBudget, status)
	s.metrics.ObserveTotalLoss(breakdown.TotalLossDb)
	s.logger.Debug("budget computed",
		zap.String("reference", string(breakdown.ReferenceFiber)),
		zap.Float64("total_loss_db", breakdown.TotalLossDb),
		zap.String("status", status))
	_ = render.Render(w, r, BudgetResponse{Status: status, Breakdown: breakdown})
}

func (s *Server) computeWavelengths(w http.ResponseWriter, r *http.Request) {
	var body WavelengthsRequest
	if err := render.Bind(r, &body); err != nil {
		s.reject(w, r, endpointWavelengths, bindError(err))
		return
	}
	seg, err := body.Segment.ToBudget(1)
	if err != nil {
		s.reject(w, r, endpointWavelengths, err)
		return
	}
	losses, err := s.calc.ComputeAllWavelengths(seg)
	if err != nil {
		s.reject(w, r, endpointWavelengths, err)
		return
	}
	s.metrics.ObserveCalculation(endpointWavelengths, metrics.OutcomePass)
	_ = render.Render(w, r, WavelengthsResponse{Fiber: seg.Fiber, DistanceKm: seg.DistanceKm(), Wavelengths: losses})
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	s.metrics.ObserveCalculation(endpoint, metrics.OutcomeRejected)
	resp := errorFor(err)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		s.logger.Error("calculation failed", zap.String("endpoint", endpoint), zap.Error(err))
	}
	_ = render.Render(w, r, resp)
}
