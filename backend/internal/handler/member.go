package handler

import (
	"net/http"
	"strings"

	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/domain"
	"github.com/threadkeep/threadkeep/shared/utils"
)

// GetMembers resolves member profiles for a comma-separated ids query param.
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	idsParam := r.URL.Query().Get("ids")
	if idsParam == "" {
		http.Error(w, "Missing ids query parameter", http.StatusBadRequest)
		return
	}

	var ids []domain.MemberId
	for _, id := range strings.Split(idsParam, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	members, err := h.member.GetMembers(ids)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, api.MembersResponse{Members: members})
}
