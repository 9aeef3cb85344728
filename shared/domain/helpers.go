package domain

import (
	"fmt"
	"time"
)

// for debug
func (c *Comment) String() string {
	text := "<redacted>"
	if c.Content != nil {
		text = c.Content.Text
	}
	parent := "-"
	if c.ParentId != nil {
		parent = *c.ParentId
	}
	return fmt.Sprintf("[id:%s, author:%s, parent:%s, status:%s, replies:%d, text:%s, created:%s]",
		c.Id, c.AuthorId, parent, c.Status, c.ReplyCount, text, c.CreatedAt.Format(time.StampMilli))
}
