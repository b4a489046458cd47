package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/openmevzuat/mevzuat/internal/llm"
	"github.com/openmevzuat/mevzuat/internal/models"
	"github.com/openmevzuat/mevzuat/internal/storage"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	sess := s.sessions.Get(req.SessionID)
	s.logger.Debug("query request",
		zap.String("session_id", sess.ID()),
		zap.String("query", req.Query))

	result, err := s.agent.Run(r.Context(), req.Query, sess.History())
	if err != nil {
		s.logger.Error("query failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sess.AppendExchange(req.Query, result.Answer)

	s.respondJSON(w, http.StatusOK, models.QueryResponse{
		Response:  result.Answer,
		SessionID: sess.ID(),
	})
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	var req models.TitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title, err := llm.GenerateTitle(r.Context(), s.titleClient, req.Messages)
	if err != nil {
		s.logger.Error("title generation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.TitleResponse{Title: title})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	articleCount, err := s.storage.CountArticles(ctx)
	if err != nil {
		s.logger.Error("status: count articles failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sources, err := s.storage.ListSources(ctx)
	if err != nil {
		s.logger.Error("status: list sources failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{
		"articles":          articleCount,
		"sources":           sources,
		"vector_index_size": s.vectorIndex.Size(),
		"sessions":          s.sessions.Count(),
		"config": map[string]interface{}{
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"model":                s.config.LLM.Model,
			"max_iterations":       s.config.Agent.MaxIterations,
			"retrieve_k":           s.config.Agent.RetrieveK,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.BleveIndexPath,
		s.config.Storage.VectorIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "BTU Mevzuat Asistanına Hoşgeldiniz!"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
