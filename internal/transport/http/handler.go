package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"weekly-quiz-service/internal/app"
	"weekly-quiz-service/internal/domain"
)

const adminKeyHeader = "X-Admin-Key"

// Handler exposes the quiz use cases over JSON HTTP.
type Handler struct {
	service *app.QuizService
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{service: service}
}

// Register wires all routes onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/questions", h.handleQuestions)
	mux.HandleFunc("/api/submissions", h.handleSubmit)
	mux.HandleFunc("/api/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/api/leaderboard/export", h.handleExport)
	mux.HandleFunc("/api/admin/login", h.handleAdminLogin)
	mux.HandleFunc("/api/admin/questions", h.handleAddQuestion)
	mux.HandleFunc("/api/admin/leaderboard", h.handleResetLeaderboard)
}

// questionView hides the correct answer from participants.
type questionView struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type submitRequest struct {
	Name    string            `json:"name"`
	Twitter string            `json:"twitter"`
	Answers map[string]string `json:"answers"`
}

type submitResponse struct {
	Score       int                `json:"score"`
	Total       int                `json:"total"`
	WeekKey     string             `json:"weekKey"`
	Leaderboard domain.Leaderboard `json:"leaderboard"`
}

type adminLoginRequest struct {
	Key string `json:"key"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bank, err := h.service.Questions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]questionView, 0, len(bank))
	for _, q := range bank {
		views = append(views, questionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission payload")
		return
	}

	answers := make(domain.AnswerSet, len(req.Answers))
	for rawID, option := range req.Answers {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			continue // non-numeric keys can never match a question
		}
		answers[id] = option
	}

	record, lb, err := h.service.Submit(r.Context(), req.Name, req.Twitter, answers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	bank, err := h.service.Questions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Score:       record.Score,
		Total:       len(bank),
		WeekKey:     lb.WeekKey,
		Leaderboard: lb,
	})
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.service.Leaderboard(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filename, data, err := h.service.Export(r.Context())
	if errors.Is(err, domain.ErrNoData) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}
	if err := h.service.Authenticate(req.Key); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"admin": true})
}

func (h *Handler) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var draft domain.QuestionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid question payload")
		return
	}
	question, err := h.service.AddQuestion(r.Context(), r.Header.Get(adminKeyHeader), draft)
	if errors.Is(err, domain.ErrInvalidAdminKey) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) handleResetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lb, err := h.service.ResetLeaderboard(r.Context(), r.Header.Get(adminKeyHeader))
	if errors.Is(err, domain.ErrInvalidAdminKey) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}
