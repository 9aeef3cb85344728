package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadkeep/threadkeep/backend/internal/service"
	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/config"
	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
	mw "github.com/threadkeep/threadkeep/shared/middleware"
)

// MockCommentService implements the service.CommentService interface
type MockCommentService struct {
	MockList        func(resource domain.ResourceId, viewer *domain.Member, q service.ListQuery) (*api.ListCommentsResponse, error)
	MockListReplies func(commentId domain.CommentId, viewer *domain.Member, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error)
	MockCreate      func(resource domain.ResourceId, author domain.Member, text string, parentId *domain.CommentId) (domain.Comment, error)
	MockDelete      func(requester domain.Member, id domain.CommentId) error
	MockGet         func(id domain.CommentId) (domain.Comment, error)
}

func (m *MockCommentService) List(resource domain.ResourceId, viewer *domain.Member, q service.ListQuery) (*api.ListCommentsResponse, error) {
	if m.MockList != nil {
		return m.MockList(resource, viewer, q)
	}
	return &api.ListCommentsResponse{Comments: []domain.Comment{}}, nil
}

func (m *MockCommentService) ListReplies(commentId domain.CommentId, viewer *domain.Member, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error) {
	if m.MockListReplies != nil {
		return m.MockListReplies(commentId, viewer, limit, cursor)
	}
	return &api.ListRepliesResponse{Comments: []domain.Comment{}}, nil
}

func (m *MockCommentService) Create(resource domain.ResourceId, author domain.Member, text string, parentId *domain.CommentId) (domain.Comment, error) {
	if m.MockCreate != nil {
		return m.MockCreate(resource, author, text, parentId)
	}
	return domain.Comment{Id: "created"}, nil
}

func (m *MockCommentService) Delete(requester domain.Member, id domain.CommentId) error {
	if m.MockDelete != nil {
		return m.MockDelete(requester, id)
	}
	return nil
}

func (m *MockCommentService) Get(id domain.CommentId) (domain.Comment, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Comment{Id: id}, nil
}

func setupCommentTestHandler(commentService service.CommentService) *mux.Router {
	h := &Handler{comment: commentService, cfg: &config.Config{}}
	router := mux.NewRouter()
	router.HandleFunc("/v1/resources/{resource}/comments", h.ListComments).Methods(http.MethodGet)
	router.HandleFunc("/v1/resources/{resource}/comments", h.CreateComment).Methods(http.MethodPost)
	router.HandleFunc("/v1/comments/{comment}/replies", h.ListReplies).Methods(http.MethodGet)
	router.HandleFunc("/v1/comments/{comment}", h.DeleteComment).Methods(http.MethodDelete)
	return router
}

func withMember(req *http.Request, member *domain.Member) *http.Request {
	ctx := context.WithValue(req.Context(), mw.MemberClaimsKey, member)
	return req.WithContext(ctx)
}

func TestListCommentsHandler(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		mockService := &MockCommentService{
			MockList: func(resource domain.ResourceId, viewer *domain.Member, q service.ListQuery) (*api.ListCommentsResponse, error) {
				assert.Equal(t, domain.ResourceId("post-1"), resource)
				assert.Equal(t, 5, q.Limit)
				assert.Equal(t, domain.Cursor("c3"), q.Cursor)
				assert.Equal(t, domain.OldestFirst, q.Sort)
				return &api.ListCommentsResponse{
					Comments:       []domain.Comment{{Id: "c4"}},
					PagingMetadata: api.PagingMetadata{Cursor: "c4", HasNext: true},
				}, nil
			},
		}
		router := setupCommentTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/v1/resources/post-1/comments?limit=5&cursor=c3&sort=OLDEST_FIRST", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.ListCommentsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp.Comments, 1)
		assert.True(t, resp.PagingMetadata.HasNext)
	})

	t.Run("invalid limit", func(t *testing.T) {
		router := setupCommentTestHandler(&MockCommentService{})
		req := httptest.NewRequest(http.MethodGet, "/v1/resources/post-1/comments?limit=abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid sort", func(t *testing.T) {
		router := setupCommentTestHandler(&MockCommentService{})
		req := httptest.NewRequest(http.MethodGet, "/v1/resources/post-1/comments?sort=SIDEWAYS", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockService := &MockCommentService{
			MockList: func(resource domain.ResourceId, viewer *domain.Member, q service.ListQuery) (*api.ListCommentsResponse, error) {
				return nil, errors.New("boom")
			},
		}
		router := setupCommentTestHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/v1/resources/post-1/comments", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestListRepliesHandler(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		mockService := &MockCommentService{
			MockListReplies: func(commentId domain.CommentId, viewer *domain.Member, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error) {
				assert.Equal(t, domain.CommentId("c1"), commentId)
				assert.Equal(t, 10, limit)
				assert.Equal(t, domain.Cursor("r2"), cursor)
				return &api.ListRepliesResponse{Comments: []domain.Comment{{Id: "r3"}}}, nil
			},
		}
		router := setupCommentTestHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/v1/comments/c1/replies?limit=10&cursor=r2", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp api.ListRepliesResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp.Comments, 1)
	})

	t.Run("unknown comment", func(t *testing.T) {
		mockService := &MockCommentService{
			MockListReplies: func(commentId domain.CommentId, viewer *domain.Member, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error) {
				return nil, &internal_errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}
			},
		}
		router := setupCommentTestHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/v1/comments/ghost/replies", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCreateCommentHandler(t *testing.T) {
	member := domain.Member{Id: "m1", Nickname: "alice"}
	validBody := []byte(`{"content": "hello there"}`)

	t.Run("successful request", func(t *testing.T) {
		mockService := &MockCommentService{
			MockCreate: func(resource domain.ResourceId, author domain.Member, text string, parentId *domain.CommentId) (domain.Comment, error) {
				assert.Equal(t, domain.ResourceId("post-1"), resource)
				assert.Equal(t, member, author)
				assert.Equal(t, "hello there", text)
				assert.Nil(t, parentId)
				return domain.Comment{Id: "created", AuthorId: author.Id}, nil
			},
		}
		router := setupCommentTestHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/v1/resources/post-1/comments", bytes.NewBuffer(validBody))
		req = withMember(req, &member)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var resp api.CreateCommentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, domain.CommentId("created"), resp.Comment.Id)
	})

	t.Run("reply request passes parent id", func(t *testing.T) {
		mockService := &MockCommentService{
			MockCreate: func(resource domain.ResourceId, author domain.Member, text string, parentId *domain.CommentId) (domain.Comment, error) {
				require.NotNil(t, parentId)
				assert.Equal(t, domain.CommentId("parent-1"), *parentId)
				return domain.Comment{Id: "created"}, nil
			},
		}
		router := setupCommentTestHandler(mockService)

		body := []byte(`{"content": "a reply", "parentId": "parent-1"}`)
		req := httptest.NewRequest(http.MethodPost, "/v1/resources/post-1/comments", bytes.NewBuffer(body))
		req = withMember(req, &member)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		router := setupCommentTestHandler(&MockCommentService{})
		req := httptest.NewRequest(http.MethodPost, "/v1/resources/post-1/comments", bytes.NewBuffer([]byte(`{invalid::}`)))
		req = withMember(req, &member)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing content", func(t *testing.T) {
		router := setupCommentTestHandler(&MockCommentService{})
		req := httptest.NewRequest(http.MethodPost, "/v1/resources/post-1/comments", bytes.NewBuffer([]byte(`{}`)))
		req = withMember(req, &member)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := setupCommentTestHandler(&MockCommentService{})
		req := httptest.NewRequest(http.MethodPost, "/v1/resources/post-1/comments", bytes.NewBuffer(validBody))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestDeleteCommentHandler(t *testing.T) {
	member := domain.Member{Id: "m1"}

	t.Run("successful request", func(t *testing.T) {
		mockService := &MockCommentService{
			MockDelete: func(requester domain.Member, id domain.CommentId) error {
				assert.Equal(t, member, requester)
				assert.Equal(t, domain.CommentId("c1"), id)
				return nil
			},
		}
		router := setupCommentTestHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/v1/comments/c1", nil)
		req = withMember(req, &member)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		mockService := &MockCommentService{
			MockDelete: func(requester domain.Member, id domain.CommentId) error {
				return &internal_errors.ErrorWithStatusCode{Message: "Only the author or an admin can delete a comment", StatusCode: http.StatusForbidden}
			},
		}
		router := setupCommentTestHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/v1/comments/c1", nil)
		req = withMember(req, &member)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := setupCommentTestHandler(&MockCommentService{})
		req := httptest.NewRequest(http.MethodDelete, "/v1/comments/c1", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
