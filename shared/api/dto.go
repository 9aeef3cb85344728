package api

import "github.com/threadkeep/threadkeep/shared/domain"

// Wire DTOs shared by the backend handlers and the client

type PagingMetadata struct {
	Cursor  domain.Cursor `json:"cursor,omitempty"` // empty when there is no next page
	HasNext bool          `json:"hasNext"`
}

// ReplyThread is the inline first page of one comment's replies.
type ReplyThread struct {
	Comments       []domain.Comment `json:"comments"`
	PagingMetadata PagingMetadata   `json:"pagingMetadata"`
}

type ListCommentsResponse struct {
	Comments       []domain.Comment                 `json:"comments"`
	PagingMetadata PagingMetadata                   `json:"pagingMetadata"`
	ReplyThreads   map[domain.CommentId]ReplyThread `json:"replyThreads,omitempty"`
}

type ListRepliesResponse struct {
	Comments       []domain.Comment `json:"comments"`
	PagingMetadata PagingMetadata   `json:"pagingMetadata"`
}

type CreateCommentRequest struct {
	Content  string            `json:"content" validate:"required"`
	ParentId *domain.CommentId `json:"parentId,omitempty"`
}

type CreateCommentResponse struct {
	Comment domain.Comment `json:"comment"`
}

type MembersResponse struct {
	Members []domain.Member `json:"members"`
}

type MemberTokenRequest struct {
	Nickname string `json:"nickname" validate:"required"`
}

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token  string        `json:"token"`
	Member domain.Member `json:"member"`
}
