package threadstore

import (
	"github.com/threadkeep/threadkeep/shared/domain"
	"github.com/threadkeep/threadkeep/shared/logger"
)

// resolveAuthors attaches member profiles to comments. Profiles already
// present in the batch seed a per-call cache so each author id is looked up
// at most once. A member the API can't resolve is logged and left nil; it
// never fails the batch.
func (s *Store) resolveAuthors(comments []domain.Comment) []domain.Comment {
	cache := make(map[domain.MemberId]*domain.Member, len(comments))
	for _, c := range comments {
		if c.Author != nil {
			cache[c.AuthorId] = c.Author
		}
	}

	var missing []domain.MemberId
	for _, c := range comments {
		if c.Author != nil || c.AuthorId == "" {
			continue
		}
		if _, ok := cache[c.AuthorId]; ok {
			continue
		}
		cache[c.AuthorId] = nil
		missing = append(missing, c.AuthorId)
	}

	if len(missing) > 0 {
		members, err := s.members.GetMembers(missing)
		if err != nil {
			logger.Log.Warn("member resolution failed", "error", err)
		} else {
			for i := range members {
				m := members[i]
				cache[m.Id] = &m
			}
		}
	}

	resolved := make([]domain.Comment, len(comments))
	for i, c := range comments {
		if c.Author == nil && c.AuthorId != "" {
			member := cache[c.AuthorId]
			if member == nil {
				logger.Log.Warn("unknown comment author", "member", string(c.AuthorId))
			}
			c.Author = member
		}
		resolved[i] = c
	}
	return resolved
}
