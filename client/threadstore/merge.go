package threadstore

import "github.com/threadkeep/threadkeep/shared/domain"

// mergePreserveOrderById merges incoming comments into base. Ids already in
// base keep their original position but take the incoming copy; unseen ids
// are appended in incoming order. Merging the same page twice is idempotent.
func mergePreserveOrderById(base, incoming []domain.Comment) []domain.Comment {
	replacement := make(map[domain.CommentId]domain.Comment, len(incoming))
	for _, c := range incoming {
		replacement[c.Id] = c
	}

	merged := make([]domain.Comment, 0, len(base)+len(incoming))
	seen := make(map[domain.CommentId]struct{}, len(base)+len(incoming))
	for _, c := range base {
		if _, dup := seen[c.Id]; dup {
			continue
		}
		seen[c.Id] = struct{}{}
		if updated, ok := replacement[c.Id]; ok {
			c = updated
		}
		merged = append(merged, c)
	}
	for _, c := range incoming {
		if _, dup := seen[c.Id]; dup {
			continue
		}
		seen[c.Id] = struct{}{}
		merged = append(merged, c)
	}
	return merged
}
