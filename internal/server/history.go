package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/internal/model"
	"github.com/pitchforge/pitchforge/internal/store"
)

func (s *Server) handleHistorySave(w http.ResponseWriter, r *http.Request) {
	var item model.SavedItem
	if err := decodeJSON(r, &item); err != nil {
		respondError(w, http.StatusBadRequest, "请求内容格式错误")
		return
	}
	if item.Title == "" {
		respondError(w, http.StatusBadRequest, "请提供标题")
		return
	}
	switch item.Type {
	case model.SavedBusinessPlan, model.SavedQuestionnaire:
	default:
		respondError(w, http.StatusBadRequest, "不支持的记录类型")
		return
	}

	if err := s.store.Save(r.Context(), &item); err != nil {
		zap.L().Error("save history failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "保存失败，请重试")
		return
	}
	respond(w, http.StatusCreated, item)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		Type: model.SavedItemType(r.URL.Query().Get("type")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	items, err := s.store.List(r.Context(), filter)
	if err != nil {
		zap.L().Error("list history failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "查询失败，请重试")
		return
	}
	if items == nil {
		items = []model.SavedItem{}
	}
	respond(w, http.StatusOK, items)
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "记录不存在")
			return
		}
		zap.L().Error("get history failed", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "查询失败，请重试")
		return
	}
	respond(w, http.StatusOK, item)
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "记录不存在")
			return
		}
		zap.L().Error("delete history failed", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "删除失败，请重试")
		return
	}
	respond(w, http.StatusOK, map[string]string{"id": id})
}
