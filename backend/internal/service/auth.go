package service

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
	"github.com/threadkeep/threadkeep/shared/jwt"
)

type AuthService interface {
	// MemberToken registers a member identity for the nickname and issues a token for it
	MemberToken(nickname domain.Nickname) (string, domain.Member, error)
	// AdminLogin checks the admin password and issues an admin token
	AdminLogin(password string) (string, domain.Member, error)
}

type Auth struct {
	members           MemberService
	jwt               jwt.JwtService
	adminPasswordHash string
}

func NewAuth(members MemberService, jwtService jwt.JwtService, adminPasswordHash string) AuthService {
	return &Auth{members, jwtService, adminPasswordHash}
}

func (s *Auth) MemberToken(nickname domain.Nickname) (string, domain.Member, error) {
	member, err := s.members.Register(nickname)
	if err != nil {
		return "", domain.Member{}, err
	}

	token, err := s.jwt.NewToken(member)
	if err != nil {
		return "", domain.Member{}, err
	}
	return token, member, nil
}

func (s *Auth) AdminLogin(password string) (string, domain.Member, error) {
	if s.adminPasswordHash == "" {
		return "", domain.Member{}, &internal_errors.ErrorWithStatusCode{Message: "Admin login is not configured", StatusCode: http.StatusForbidden}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)); err != nil {
		return "", domain.Member{}, &internal_errors.ErrorWithStatusCode{Message: "Wrong password", StatusCode: http.StatusUnauthorized}
	}

	admin := domain.Member{Id: "admin", Nickname: "admin", Admin: true}
	token, err := s.jwt.NewToken(admin)
	if err != nil {
		return "", domain.Member{}, err
	}
	return token, admin, nil
}
