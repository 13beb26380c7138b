package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/model"
)

type planRequest struct {
	Elements *model.BusinessElements `json:"elements"`
	Title    string                  `json:"title"`
	Stream   *bool                   `json:"stream"`
}

type planBufferedResponse struct {
	Title     string                  `json:"title"`
	Elements  *model.BusinessElements `json:"elements"`
	Content   string                  `json:"content"`
	CreatedAt time.Time               `json:"createdAt"`
}

// handlePlan generates the plan narrative. Streaming is the default;
// stream:false in the request body selects the buffered response.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil || req.Elements == nil {
		respondError(w, http.StatusBadRequest, "请提供商业要素数据")
		return
	}

	if req.Stream != nil && !*req.Stream {
		s.planBuffered(w, r, &req)
		return
	}
	s.planStream(w, r, &req)
}

func (s *Server) planBuffered(w http.ResponseWriter, r *http.Request, req *planRequest) {
	content, err := s.planGen.GenerateBuffered(r.Context(), req.Elements)
	if err != nil {
		zap.L().Error("plan generation failed", zap.Error(err))
		respondUpstream(w, err)
		return
	}

	title := req.Title
	if title == "" {
		title = "商业计划书"
	}
	respond(w, http.StatusOK, planBufferedResponse{
		Title:     title,
		Elements:  req.Elements,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

// planStream relays plan events as server-sent events, one data frame
// per event. The generator owns the terminal done/error event; a client
// disconnect cancels generation through the request context.
func (s *Server) planStream(w http.ResponseWriter, r *http.Request, req *planRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range s.planGen.Stream(r.Context(), req.Elements, req.Title) {
		payload, err := json.Marshal(ev)
		if err != nil {
			zap.L().Error("marshal plan event", zap.Error(err))
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			// Client went away; the context cancellation stops the producer.
			return
		}
		flusher.Flush()
	}
}
