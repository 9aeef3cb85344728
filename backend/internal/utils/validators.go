package utils

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
)

// CommentTextValidator enforces comment body limits before rendering/storage.
type CommentTextValidator struct {
	MaxLength int
}

func (v *CommentTextValidator) Text(text string) error {
	if strings.TrimSpace(text) == "" {
		return &internal_errors.ErrorWithStatusCode{Message: "Comment text cannot be empty", StatusCode: http.StatusBadRequest}
	}
	if utf8.RuneCountInString(text) > v.MaxLength {
		return &internal_errors.ErrorWithStatusCode{Message: "Comment text is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}

const maxNicknameLength = 50

type NicknameValidator struct{}

func (v *NicknameValidator) Nickname(nickname domain.Nickname) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return &internal_errors.ErrorWithStatusCode{Message: "Nickname cannot be empty", StatusCode: http.StatusBadRequest}
	}
	if utf8.RuneCountInString(trimmed) > maxNicknameLength {
		return &internal_errors.ErrorWithStatusCode{Message: "Nickname is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}
