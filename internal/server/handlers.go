package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/competitor"
	"github.com/pitchforge/pitchforge/internal/model"
)

type extractRequest struct {
	Idea string `json:"idea"`
}

type extractResponse struct {
	Idea      string                  `json:"idea"`
	Elements  *model.BusinessElements `json:"elements"`
	CreatedAt time.Time               `json:"createdAt"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(r, &req); err != nil || req.Idea == "" {
		respondError(w, http.StatusBadRequest, "请提供创业想法")
		return
	}

	elements, err := s.extractor.Extract(r.Context(), req.Idea)
	if err != nil {
		zap.L().Error("extract failed", zap.Error(err))
		respondUpstream(w, err)
		return
	}

	respond(w, http.StatusOK, extractResponse{
		Idea:      req.Idea,
		Elements:  elements,
		CreatedAt: time.Now().UTC(),
	})
}

type elementsRequest struct {
	Elements *model.BusinessElements `json:"elements"`
}

func (s *Server) handleFinancialModel(w http.ResponseWriter, r *http.Request) {
	var req elementsRequest
	if err := decodeJSON(r, &req); err != nil || req.Elements == nil || req.Elements.BusinessModel == "" {
		respondError(w, http.StatusBadRequest, "缺少必要的商业要素数据")
		return
	}

	fm, err := s.finGen.Generate(r.Context(), req.Elements)
	if err != nil {
		zap.L().Error("financial model failed", zap.Error(err))
		respondUpstream(w, err)
		return
	}

	respond(w, http.StatusOK, fm)
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	var req elementsRequest
	if err := decodeJSON(r, &req); err != nil || req.Elements == nil {
		respondError(w, http.StatusBadRequest, "请提供商业要素数据")
		return
	}

	q, err := s.questGen.Generate(r.Context(), req.Elements)
	if err != nil {
		zap.L().Error("questionnaire failed", zap.Error(err))
		respondUpstream(w, err)
		return
	}

	respond(w, http.StatusOK, q)
}

type competitorResponse struct {
	Competitors     []model.Competitor        `json:"competitors"`
	CompetitorTable []model.CompetitorRow     `json:"competitorTable"`
	Analysis        model.CompetitorNarrative `json:"analysis"`
}

func (s *Server) handleCompetitorAnalysis(w http.ResponseWriter, r *http.Request) {
	var req elementsRequest
	if err := decodeJSON(r, &req); err != nil || req.Elements == nil {
		respondError(w, http.StatusBadRequest, "缺少必要参数：elements")
		return
	}

	result := competitor.Analyze(req.Elements)
	respond(w, http.StatusOK, competitorResponse{
		Competitors:     result.Competitors,
		CompetitorTable: competitor.FormatTable(result.Competitors),
		Analysis:        result.Analysis,
	})
}
