package handler

import (
	"github.com/threadkeep/threadkeep/backend/internal/service"
	"github.com/threadkeep/threadkeep/shared/config"
)

type Handler struct {
	comment service.CommentService
	member  service.MemberService
	auth    service.AuthService
	cfg     *config.Config
}

func New(comment service.CommentService, member service.MemberService, auth service.AuthService, cfg *config.Config) *Handler {
	return &Handler{comment, member, auth, cfg}
}
