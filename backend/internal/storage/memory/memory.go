// Package memory implements comment storage in process memory.
// It backs the service in tests and single-node deployments without postgres.
package memory

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/threadkeep/threadkeep/backend/internal/service"
	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
)

type Storage struct {
	mu              sync.RWMutex
	comments        map[domain.CommentId]*domain.Comment
	rootsByResource map[domain.ResourceId][]domain.CommentId // insertion order
	repliesByThread map[domain.CommentId][]domain.CommentId  // insertion order, thread = top-level comment
	topOf           map[domain.CommentId]domain.CommentId    // reply id -> thread id
	members         map[domain.MemberId]domain.Member
	lastCreated     time.Time
}

func New() *Storage {
	return &Storage{
		comments:        make(map[domain.CommentId]*domain.Comment),
		rootsByResource: make(map[domain.ResourceId][]domain.CommentId),
		repliesByThread: make(map[domain.CommentId][]domain.CommentId),
		topOf:           make(map[domain.CommentId]domain.CommentId),
		members:         make(map[domain.MemberId]domain.Member),
	}
}

// nextTimestamp returns a strictly increasing creation time.
// Timestamp ordering must be total or cursor pagination gets ambiguous.
func (s *Storage) nextTimestamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Nanosecond)
	}
	s.lastCreated = now
	return now
}

func errCommentNotFound() error {
	return &internal_errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}
}

// === Comment methods ===

func (s *Storage) CreateComment(c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Id = uuid.NewString()
	c.CreatedAt = s.nextTimestamp()

	if c.ParentId == nil {
		s.rootsByResource[c.ResourceId] = append(s.rootsByResource[c.ResourceId], c.Id)
	} else {
		parent, ok := s.comments[*c.ParentId]
		if !ok {
			return errCommentNotFound()
		}

		// Replies to replies land in the top-level comment's thread
		top := parent.Id
		if t, ok := s.topOf[parent.Id]; ok {
			top = t
		}
		s.repliesByThread[top] = append(s.repliesByThread[top], c.Id)
		s.topOf[c.Id] = top

		parent.ReplyCount++
		if top != parent.Id {
			s.comments[top].ReplyCount++
		}
	}

	stored := *c
	s.comments[c.Id] = &stored
	return nil
}

func (s *Storage) GetComment(id domain.CommentId) (domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return domain.Comment{}, errCommentNotFound()
	}
	return *c, nil
}

func (s *Storage) RemoveComment(id domain.CommentId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return errCommentNotFound()
	}

	if c.ParentId == nil {
		s.rootsByResource[c.ResourceId] = removeId(s.rootsByResource[c.ResourceId], id)
		delete(s.repliesByThread, id)
	} else {
		top := s.topOf[id]
		s.repliesByThread[top] = removeId(s.repliesByThread[top], id)
		delete(s.topOf, id)

		if parent, ok := s.comments[*c.ParentId]; ok && parent.ReplyCount > 0 {
			parent.ReplyCount--
			if top != parent.Id {
				if topComment, ok := s.comments[top]; ok && topComment.ReplyCount > 0 {
					topComment.ReplyCount--
				}
			}
		}
	}

	delete(s.comments, id)
	return nil
}

func (s *Storage) MarkDeleted(id domain.CommentId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return errCommentNotFound()
	}
	c.Tombstone()
	return nil
}

// === Pagination methods ===

func (s *Storage) ListRoots(resource domain.ResourceId, sortOrder domain.SortOrder, limit int, cursor domain.Cursor) (*service.CommentPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roots := s.collect(s.rootsByResource[resource])
	// Insertion order is oldest-first already; stable sort keeps ties deterministic
	if sortOrder == domain.NewestFirst {
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		})
	} else {
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.Before(roots[j].CreatedAt)
		})
	}

	return paginate(roots, limit, cursor), nil
}

func (s *Storage) ListReplies(threadId domain.CommentId, limit int, cursor domain.Cursor) (*service.CommentPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	replies := s.collect(s.repliesByThread[threadId])
	// Replies always read oldest-first
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	return paginate(replies, limit, cursor), nil
}

func (s *Storage) collect(ids []domain.CommentId) []domain.Comment {
	comments := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			comments = append(comments, *c)
		}
	}
	return comments
}

// paginate slices out one page; the cursor is the id of the last comment of
// the previous page.
func paginate(comments []domain.Comment, limit int, cursor domain.Cursor) *service.CommentPage {
	start := 0
	if cursor != "" {
		for i, c := range comments {
			if c.Id == cursor {
				start = i + 1
				break
			}
		}
	}

	if start >= len(comments) {
		return &service.CommentPage{Comments: []domain.Comment{}}
	}

	end := start + limit
	if end > len(comments) {
		end = len(comments)
	}

	page := &service.CommentPage{Comments: comments[start:end]}
	if end < len(comments) {
		page.NextCursor = comments[end-1].Id
	}
	return page
}

func removeId(ids []domain.CommentId, id domain.CommentId) []domain.CommentId {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// === Member methods ===

func (s *Storage) UpsertMember(m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[m.Id] = m
	return nil
}

func (s *Storage) GetMembers(ids []domain.MemberId) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]domain.Member, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.members[id]; ok {
			members = append(members, m)
		}
	}
	return members, nil
}
