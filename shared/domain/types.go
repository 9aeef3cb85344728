package domain

type (
	CommentId  = string
	MemberId   = string
	ResourceId = string

	// Cursor is an opaque pagination token returned by the comments API.
	// Empty means "no further pages".
	Cursor = string

	Nickname = string
)

// SortOrder controls the ordering of top-level comment pages.
type SortOrder string

const (
	NewestFirst SortOrder = "NEWEST_FIRST"
	OldestFirst SortOrder = "OLDEST_FIRST"
)

func (s SortOrder) Valid() bool {
	return s == NewestFirst || s == OldestFirst
}

// CommentStatus is the moderation/visibility state of a comment.
type CommentStatus string

const (
	StatusPending   CommentStatus = "PENDING"
	StatusPublished CommentStatus = "PUBLISHED"
	StatusDeleted   CommentStatus = "DELETED"
)
