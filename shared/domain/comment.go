package domain

import "time"

// Content is the body of a comment: the raw text the author submitted and
// the sanitized HTML rendering served to consumers.
type Content struct {
	Text string `json:"text"`
	Html string `json:"html,omitempty"`
}

type Comment struct {
	Id         CommentId     `json:"id"`
	ResourceId ResourceId    `json:"resourceId"`
	ParentId   *CommentId    `json:"parentId,omitempty"`
	Content    *Content      `json:"content,omitempty"` // nil after tombstoning
	AuthorId   MemberId      `json:"authorId,omitempty"`
	Author     *Member       `json:"author,omitempty"` // resolved, not stored
	Status     CommentStatus `json:"status"`
	ReplyCount int           `json:"replyCount"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// IsReply reports whether the comment belongs to another comment's thread.
func (c *Comment) IsReply() bool {
	return c.ParentId != nil && *c.ParentId != ""
}

// Tombstone redacts the comment in place, keeping it as a structural
// placeholder for its replies.
func (c *Comment) Tombstone() {
	c.Status = StatusDeleted
	c.Content = nil
	c.Author = nil
	c.AuthorId = ""
}
