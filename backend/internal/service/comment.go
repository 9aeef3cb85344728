package service

import (
	"net/http"

	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/config"
	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
)

// CommentPage is one storage page of comments plus the cursor of the next one.
type CommentPage struct {
	Comments   []domain.Comment
	NextCursor domain.Cursor // empty when exhausted
}

type ListQuery struct {
	Limit  int
	Cursor domain.Cursor
	Sort   domain.SortOrder
}

type CommentService interface {
	List(resource domain.ResourceId, viewer *domain.Member, q ListQuery) (*api.ListCommentsResponse, error)
	ListReplies(commentId domain.CommentId, viewer *domain.Member, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error)
	Create(resource domain.ResourceId, author domain.Member, text string, parentId *domain.CommentId) (domain.Comment, error)
	Delete(requester domain.Member, id domain.CommentId) error
	Get(id domain.CommentId) (domain.Comment, error)
}

type CommentStorage interface {
	CreateComment(c *domain.Comment) error
	GetComment(id domain.CommentId) (domain.Comment, error)
	// RemoveComment hard-deletes a comment and fixes up ancestor reply counts
	RemoveComment(id domain.CommentId) error
	// MarkDeleted tombstones a comment, preserving it for its replies
	MarkDeleted(id domain.CommentId) error
	ListRoots(resource domain.ResourceId, sort domain.SortOrder, limit int, cursor domain.Cursor) (*CommentPage, error)
	ListReplies(threadId domain.CommentId, limit int, cursor domain.Cursor) (*CommentPage, error)
}

type CommentValidator interface {
	Text(text string) error
}

type ContentRenderer interface {
	Render(text string) (string, error)
}

type Comment struct {
	storage   CommentStorage
	validator CommentValidator
	renderer  ContentRenderer
	cfg       *config.Config
}

func NewComment(storage CommentStorage, validator CommentValidator, renderer ContentRenderer, cfg *config.Config) CommentService {
	return &Comment{storage, validator, renderer, cfg}
}

func (s *Comment) List(resource domain.ResourceId, viewer *domain.Member, q ListQuery) (*api.ListCommentsResponse, error) {
	limit := s.clampLimit(q.Limit)
	sort := q.Sort
	if !sort.Valid() {
		sort = s.cfg.Public.DefaultSort
	}

	page, err := s.storage.ListRoots(resource, sort, limit, q.Cursor)
	if err != nil {
		return nil, err
	}

	comments := filterVisible(page.Comments, viewer)
	resp := &api.ListCommentsResponse{
		Comments: comments,
		PagingMetadata: api.PagingMetadata{
			Cursor:  page.NextCursor,
			HasNext: page.NextCursor != "",
		},
	}

	// Inline the first page of each root's reply thread
	for _, c := range comments {
		if c.ReplyCount == 0 {
			continue
		}
		replies, err := s.storage.ListReplies(c.Id, s.cfg.Public.ReplyPreviewSize, "")
		if err != nil {
			return nil, err
		}
		if resp.ReplyThreads == nil {
			resp.ReplyThreads = make(map[domain.CommentId]api.ReplyThread)
		}
		resp.ReplyThreads[c.Id] = api.ReplyThread{
			Comments: filterVisible(replies.Comments, viewer),
			PagingMetadata: api.PagingMetadata{
				Cursor:  replies.NextCursor,
				HasNext: replies.NextCursor != "",
			},
		}
	}

	return resp, nil
}

func (s *Comment) ListReplies(commentId domain.CommentId, viewer *domain.Member, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error) {
	if _, err := s.storage.GetComment(commentId); err != nil {
		return nil, err
	}

	page, err := s.storage.ListReplies(commentId, s.clampLimit(limit), cursor)
	if err != nil {
		return nil, err
	}

	return &api.ListRepliesResponse{
		Comments: filterVisible(page.Comments, viewer),
		PagingMetadata: api.PagingMetadata{
			Cursor:  page.NextCursor,
			HasNext: page.NextCursor != "",
		},
	}, nil
}

func (s *Comment) Create(resource domain.ResourceId, author domain.Member, text string, parentId *domain.CommentId) (domain.Comment, error) {
	if err := s.validator.Text(text); err != nil {
		return domain.Comment{}, err
	}

	html, err := s.renderer.Render(text)
	if err != nil {
		return domain.Comment{}, err
	}

	if parentId != nil {
		parent, err := s.storage.GetComment(*parentId)
		if err != nil {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: "Parent comment not found", StatusCode: http.StatusNotFound}
		}
		if parent.ResourceId != resource {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: "Parent comment belongs to another resource", StatusCode: http.StatusBadRequest}
		}
		if parent.Status == domain.StatusDeleted {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: "Can't reply to a deleted comment", StatusCode: http.StatusConflict}
		}
	}

	status := domain.StatusPublished
	if s.cfg.Public.Moderation && !author.Admin {
		status = domain.StatusPending
	}

	comment := domain.Comment{
		ResourceId: resource,
		ParentId:   parentId,
		Content:    &domain.Content{Text: text, Html: html},
		AuthorId:   author.Id,
		Status:     status,
	}
	if err := s.storage.CreateComment(&comment); err != nil {
		return domain.Comment{}, err
	}

	return comment, nil
}

func (s *Comment) Delete(requester domain.Member, id domain.CommentId) error {
	comment, err := s.storage.GetComment(id)
	if err != nil {
		return err
	}
	if !requester.Admin && requester.Id != comment.AuthorId {
		return &internal_errors.ErrorWithStatusCode{Message: "Only the author or an admin can delete a comment", StatusCode: http.StatusForbidden}
	}

	// Keep the comment as a tombstone when replies hang off it
	if comment.ReplyCount > 0 {
		return s.storage.MarkDeleted(id)
	}
	return s.storage.RemoveComment(id)
}

func (s *Comment) Get(id domain.CommentId) (domain.Comment, error) {
	return s.storage.GetComment(id)
}

func (s *Comment) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.Public.PageSize
	}
	if limit > s.cfg.Public.MaxPageSize {
		return s.cfg.Public.MaxPageSize
	}
	return limit
}

// filterVisible drops pending comments the viewer has no business seeing.
func filterVisible(comments []domain.Comment, viewer *domain.Member) []domain.Comment {
	visible := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Status == domain.StatusPending {
			if viewer == nil || (!viewer.Admin && viewer.Id != c.AuthorId) {
				continue
			}
		}
		visible = append(visible, c)
	}
	return visible
}
