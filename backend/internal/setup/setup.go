package setup

import (
	"github.com/threadkeep/threadkeep/backend/internal/handler"
	"github.com/threadkeep/threadkeep/backend/internal/service"
	"github.com/threadkeep/threadkeep/backend/internal/service/content"
	"github.com/threadkeep/threadkeep/backend/internal/storage/memory"
	"github.com/threadkeep/threadkeep/backend/internal/storage/pg"
	"github.com/threadkeep/threadkeep/backend/internal/utils"
	"github.com/threadkeep/threadkeep/shared/config"
	"github.com/threadkeep/threadkeep/shared/jwt"
	mw "github.com/threadkeep/threadkeep/shared/middleware"
)

// Storage is the full persistence surface the services need.
type Storage interface {
	service.CommentStorage
	service.MemberStorage
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *mw.Auth
	Cleanup        func() error
}

// SetupDependencies initializes all dependencies required for the application.
// With inMemory set, comments live in process memory instead of postgres;
// handy for local development and demos.
func SetupDependencies(cfg *config.Config, inMemory bool) (*Dependencies, error) {
	var storage Storage
	cleanup := func() error { return nil }
	if inMemory {
		storage = memory.New()
	} else {
		pgStorage, err := pg.New(cfg)
		if err != nil {
			return nil, err
		}
		storage = pgStorage
		cleanup = pgStorage.Cleanup
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	member := service.NewMember(storage, &utils.NicknameValidator{})
	comment := service.NewComment(storage, &utils.CommentTextValidator{MaxLength: cfg.Public.MaxCommentLength}, content.NewRenderer(), cfg)
	auth := service.NewAuth(member, jwtService, cfg.Private.AdminPasswordHash)

	h := handler.New(comment, member, auth, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: mw.NewAuth(jwtService, cfg.Public.SecureCookies),
		Cleanup:        cleanup,
	}, nil
}
