package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/threadkeep/threadkeep/backend/internal/service"
	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/domain"
	"github.com/threadkeep/threadkeep/shared/middleware"
	"github.com/threadkeep/threadkeep/shared/utils"
)

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]

	q := service.ListQuery{Cursor: domain.Cursor(r.URL.Query().Get("cursor"))}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "Invalid limit: must be an integer", http.StatusBadRequest)
			return
		}
		q.Limit = limit
	}
	if sortStr := r.URL.Query().Get("sort"); sortStr != "" {
		sort := domain.SortOrder(sortStr)
		if !sort.Valid() {
			http.Error(w, "Invalid sort order", http.StatusBadRequest)
			return
		}
		q.Sort = sort
	}

	resp, err := h.comment.List(resource, middleware.GetMemberFromContext(r), q)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, resp)
}

func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	commentId := mux.Vars(r)["comment"]

	var limit int
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "Invalid limit: must be an integer", http.StatusBadRequest)
			return
		}
	}

	resp, err := h.comment.ListReplies(commentId, middleware.GetMemberFromContext(r), limit, domain.Cursor(r.URL.Query().Get("cursor")))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, resp)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]

	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	member := middleware.GetMemberFromContext(r)
	if member == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	comment, err := h.comment.Create(resource, *member, body.Content, body.ParentId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	utils.WriteJSON(w, api.CreateCommentResponse{Comment: comment})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentId := mux.Vars(r)["comment"]

	member := middleware.GetMemberFromContext(r)
	if member == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	if err := h.comment.Delete(*member, commentId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
