package handler

import (
	"net/http"

	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/utils"
)

// MemberToken issues a token for a nickname. There is no password step:
// identities are minted on demand and live as long as the token does.
func (h *Handler) MemberToken(w http.ResponseWriter, r *http.Request) {
	var body api.MemberTokenRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, member, err := h.auth.MemberToken(body.Nickname)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setAccessCookie(w, token)
	utils.WriteJSON(w, api.TokenResponse{Token: token, Member: member})
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body api.AdminLoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, admin, err := h.auth.AdminLogin(body.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setAccessCookie(w, token)
	utils.WriteJSON(w, api.TokenResponse{Token: token, Member: admin})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
	})

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    token,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
