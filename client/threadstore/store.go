// Package threadstore keeps an in-memory, per-thread cache of paginated
// comment lists. The root thread holds top-level comments; every top-level
// comment with replies owns its own thread entry keyed by its id. Thread
// states are exposed as signals so UI code can subscribe to changes.
package threadstore

import (
	"sync"

	"github.com/threadkeep/threadkeep/client/signal"
	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/domain"
	"github.com/threadkeep/threadkeep/shared/logger"
)

// RootThread is the synthetic key for the top-level comment list.
const RootThread = domain.CommentId("__root__")

// ThreadState is one thread's slice of the cache.
type ThreadState struct {
	Comments []domain.Comment
	Loading  bool
	Saving   bool
	Cursor   domain.Cursor // empty means no next page
	Err      string        // last failure, cleared on the next successful call
}

// CommentsAPI is the remote comment API surface the store depends on.
// *apiclient.APIClient satisfies it.
type CommentsAPI interface {
	ListComments(resource domain.ResourceId, limit int, cursor domain.Cursor, sort domain.SortOrder) (*api.ListCommentsResponse, error)
	ListReplies(commentId domain.CommentId, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error)
	CreateComment(resource domain.ResourceId, data api.CreateCommentRequest) (domain.Comment, error)
	DeleteComment(commentId domain.CommentId) error
}

// MemberAPI resolves author ids to member profiles.
type MemberAPI interface {
	GetMembers(ids []domain.MemberId) ([]domain.Member, error)
}

type Store struct {
	mu       sync.Mutex
	api      CommentsAPI
	members  MemberAPI
	resource domain.ResourceId
	pageSize int

	sort    *signal.Signal[domain.SortOrder]
	threads map[domain.CommentId]*signal.Signal[ThreadState]
}

func New(commentsAPI CommentsAPI, memberAPI MemberAPI, resource domain.ResourceId, pageSize int, sort domain.SortOrder) *Store {
	if pageSize <= 0 {
		pageSize = 20
	}
	if !sort.Valid() {
		sort = domain.NewestFirst
	}
	return &Store{
		api:      commentsAPI,
		members:  memberAPI,
		resource: resource,
		pageSize: pageSize,
		sort:     signal.New(sort),
		threads:  map[domain.CommentId]*signal.Signal[ThreadState]{},
	}
}

// Sort exposes the sort order signal.
func (s *Store) Sort() *signal.Signal[domain.SortOrder] {
	return s.sort
}

// Thread returns the state signal for a thread key, creating an empty entry
// on first access. Entries live for the lifetime of the store.
func (s *Store) Thread(key domain.CommentId) *signal.Signal[ThreadState] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadLocked(key)
}

func (s *Store) threadLocked(key domain.CommentId) *signal.Signal[ThreadState] {
	t, ok := s.threads[key]
	if !ok {
		t = signal.New(ThreadState{})
		s.threads[key] = t
	}
	return t
}

// InitialLoad fetches the first page of root comments plus any inline reply
// threads and replaces the root thread state. No-op while a load is already
// in flight.
func (s *Store) InitialLoad() {
	root := s.Thread(RootThread)

	state := root.Get()
	if state.Loading {
		return
	}
	state.Loading = true
	root.Set(state)

	resp, err := s.api.ListComments(s.resource, s.pageSize, "", s.sort.Get())
	if err != nil {
		s.failThread(root, err)
		return
	}

	comments := s.resolveAuthors(resp.Comments)
	root.Set(ThreadState{Comments: comments, Cursor: resp.PagingMetadata.Cursor})

	// Inline reply threads replace whatever was cached for those keys
	for id, thread := range resp.ReplyThreads {
		s.Thread(id).Set(ThreadState{
			Comments: s.resolveAuthors(thread.Comments),
			Cursor:   thread.PagingMetadata.Cursor,
		})
	}
}

// LoadMore fetches the next page of root comments and merges it into the
// existing list. Warns and does nothing when there is no cursor.
func (s *Store) LoadMore() {
	s.loadMoreInto(RootThread, func(cursor domain.Cursor) ([]domain.Comment, domain.Cursor, error) {
		resp, err := s.api.ListComments(s.resource, s.pageSize, cursor, s.sort.Get())
		if err != nil {
			return nil, "", err
		}
		return resp.Comments, resp.PagingMetadata.Cursor, nil
	})
}

// LoadMoreReplies fetches the next page of one comment's replies, same merge
// contract as LoadMore.
func (s *Store) LoadMoreReplies(commentId domain.CommentId) {
	s.loadMoreInto(commentId, func(cursor domain.Cursor) ([]domain.Comment, domain.Cursor, error) {
		resp, err := s.api.ListReplies(commentId, s.pageSize, cursor)
		if err != nil {
			return nil, "", err
		}
		return resp.Comments, resp.PagingMetadata.Cursor, nil
	})
}

func (s *Store) loadMoreInto(key domain.CommentId, fetch func(cursor domain.Cursor) ([]domain.Comment, domain.Cursor, error)) {
	thread := s.Thread(key)

	state := thread.Get()
	if state.Loading {
		return
	}
	if state.Cursor == "" {
		logger.Log.Warn("load more without a cursor", "thread", string(key))
		return
	}
	state.Loading = true
	thread.Set(state)

	comments, nextCursor, err := fetch(state.Cursor)
	if err != nil {
		s.failThread(thread, err)
		return
	}

	incoming := s.resolveAuthors(comments)
	thread.Update(func(st ThreadState) ThreadState {
		st.Comments = mergePreserveOrderById(st.Comments, incoming)
		st.Cursor = nextCursor
		st.Loading = false
		st.Err = ""
		return st
	})
}

// SetSort switches the sort order and refetches from scratch. Cursors are
// discarded: pages fetched under one order are useless under another.
func (s *Store) SetSort(sort domain.SortOrder) {
	if !sort.Valid() {
		logger.Log.Warn("ignoring invalid sort order", "sort", string(sort))
		return
	}
	s.sort.Set(sort)

	root := s.Thread(RootThread)
	root.Update(func(st ThreadState) ThreadState {
		st.Cursor = ""
		return st
	})
	s.InitialLoad()
}

// CreateComment posts a top-level comment and prepends it to the root
// thread. On failure the error lands in the root thread's Err field.
func (s *Store) CreateComment(content string) (*domain.Comment, error) {
	root := s.Thread(RootThread)
	root.Update(func(st ThreadState) ThreadState {
		st.Saving = true
		return st
	})

	created, err := s.api.CreateComment(s.resource, api.CreateCommentRequest{Content: content})
	if err != nil {
		root.Update(func(st ThreadState) ThreadState {
			st.Saving = false
			st.Err = err.Error()
			return st
		})
		return nil, err
	}

	enhanced := s.resolveAuthors([]domain.Comment{created})[0]
	root.Update(func(st ThreadState) ThreadState {
		st.Comments = mergePreserveOrderById([]domain.Comment{enhanced}, st.Comments)
		st.Saving = false
		st.Err = ""
		return st
	})
	return &enhanced, nil
}

// CreateReply posts a reply under parentCommentId and stores it in the
// thread keyed by topCommentId. Reply counts are bumped on the immediate
// parent and, when different, on the top-of-thread comment.
func (s *Store) CreateReply(topCommentId, parentCommentId domain.CommentId, content string) (*domain.Comment, error) {
	thread := s.Thread(topCommentId)
	thread.Update(func(st ThreadState) ThreadState {
		st.Saving = true
		return st
	})

	created, err := s.api.CreateComment(s.resource, api.CreateCommentRequest{Content: content, ParentId: &parentCommentId})
	if err != nil {
		thread.Update(func(st ThreadState) ThreadState {
			st.Saving = false
			st.Err = err.Error()
			return st
		})
		return nil, err
	}

	enhanced := s.resolveAuthors([]domain.Comment{created})[0]
	thread.Update(func(st ThreadState) ThreadState {
		st.Comments = mergePreserveOrderById(st.Comments, []domain.Comment{enhanced})
		st.Saving = false
		st.Err = ""
		return st
	})

	s.bumpReplyCount(RootThread, topCommentId)
	if parentCommentId != topCommentId {
		s.bumpReplyCount(topCommentId, parentCommentId)
	}
	return &enhanced, nil
}

// DeleteComment removes a comment from its thread, or tombstones it in
// place when replies hang off it so the thread keeps its shape.
func (s *Store) DeleteComment(commentId domain.CommentId) error {
	_, thread := s.findThread(commentId)
	if thread == nil {
		logger.Log.Warn("delete for a comment not in the cache", "comment", string(commentId))
		return nil
	}

	if err := s.api.DeleteComment(commentId); err != nil {
		thread.Update(func(st ThreadState) ThreadState {
			st.Err = err.Error()
			return st
		})
		return err
	}

	thread.Update(func(st ThreadState) ThreadState {
		comments := make([]domain.Comment, 0, len(st.Comments))
		for _, c := range st.Comments {
			if c.Id != commentId {
				comments = append(comments, c)
				continue
			}
			if c.ReplyCount > 0 {
				c.Tombstone()
				comments = append(comments, c)
			}
		}
		st.Comments = comments
		st.Err = ""
		return st
	})
	return nil
}

// bumpReplyCount increments the reply count of one comment inside one thread.
func (s *Store) bumpReplyCount(threadKey, commentId domain.CommentId) {
	s.Thread(threadKey).Update(func(st ThreadState) ThreadState {
		for i := range st.Comments {
			if st.Comments[i].Id == commentId {
				st.Comments[i].ReplyCount++
				break
			}
		}
		return st
	})
}

// findThread locates the thread currently holding a comment.
func (s *Store) findThread(commentId domain.CommentId) (domain.CommentId, *signal.Signal[ThreadState]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, thread := range s.threads {
		for _, c := range thread.Get().Comments {
			if c.Id == commentId {
				return key, thread
			}
		}
	}
	return "", nil
}

// failThread records a failure and clears the loading flag. The caller can
// retry by re-invoking the same operation.
func (s *Store) failThread(thread *signal.Signal[ThreadState], err error) {
	thread.Update(func(st ThreadState) ThreadState {
		st.Loading = false
		st.Err = err.Error()
		return st
	})
}
