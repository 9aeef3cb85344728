package pg

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/threadkeep/threadkeep/backend/internal/service"
	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
)

func errCommentNotFound() error {
	return &internal_errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}
}

// Saves comment to db, maintaining thread membership and reply counts
func (s *Storage) CreateComment(c *domain.Comment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() // The rollback will be ignored if the tx has been committed later in the function.

	c.Id = uuid.NewString()
	c.CreatedAt = time.Now().UTC().Round(time.Microsecond) // database anyway rounds to microsecond

	var topId *domain.CommentId
	if c.ParentId != nil {
		// Replies to replies land in the top-level comment's thread
		var parentTop sql.NullString
		err = tx.QueryRow(`
		UPDATE comments
		SET reply_count = reply_count + 1
		WHERE id = $1
		RETURNING top_id
		`, *c.ParentId).Scan(&parentTop)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &internal_errors.ErrorWithStatusCode{Message: "Parent comment not found", StatusCode: http.StatusNotFound}
			}
			return err
		}

		top := *c.ParentId
		if parentTop.Valid {
			top = parentTop.String
			if _, err = tx.Exec(`UPDATE comments SET reply_count = reply_count + 1 WHERE id = $1`, top); err != nil {
				return err
			}
		}
		topId = &top
	}

	var text, html *string
	if c.Content != nil {
		text, html = &c.Content.Text, &c.Content.Html
	}
	_, err = tx.Exec(`
	INSERT INTO comments(id, resource_id, parent_id, top_id, author_id, text, html, status, reply_count, created_at)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)`,
		c.Id, c.ResourceId, c.ParentId, topId, c.AuthorId, text, html, string(c.Status), c.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Storage) GetComment(id domain.CommentId) (domain.Comment, error) {
	row := s.db.QueryRow(`
	SELECT id, resource_id, parent_id, author_id, text, html, status, reply_count, created_at
	FROM comments
	WHERE id = $1`, id)

	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, errCommentNotFound()
		}
		return domain.Comment{}, err
	}
	return c, nil
}

func (s *Storage) RemoveComment(id domain.CommentId) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var parentId, topId sql.NullString
	err = tx.QueryRow(`DELETE FROM comments WHERE id = $1 RETURNING parent_id, top_id`, id).Scan(&parentId, &topId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errCommentNotFound()
		}
		return err
	}

	if parentId.Valid {
		if _, err = tx.Exec(`UPDATE comments SET reply_count = reply_count - 1 WHERE id = $1 AND reply_count > 0`, parentId.String); err != nil {
			return err
		}
		if topId.Valid && topId.String != parentId.String {
			if _, err = tx.Exec(`UPDATE comments SET reply_count = reply_count - 1 WHERE id = $1 AND reply_count > 0`, topId.String); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *Storage) MarkDeleted(id domain.CommentId) error {
	res, err := s.db.Exec(`
	UPDATE comments
	SET status = $1, text = NULL, html = NULL, author_id = ''
	WHERE id = $2`, string(domain.StatusDeleted), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errCommentNotFound()
	}
	return nil
}

func (s *Storage) ListRoots(resource domain.ResourceId, sort domain.SortOrder, limit int, cursor domain.Cursor) (*service.CommentPage, error) {
	// Cursor points at the last comment of the previous page; the (created_at, id)
	// tuple gives a total order even when timestamps collide.
	order, cmp := "ASC", ">"
	if sort == domain.NewestFirst {
		order, cmp = "DESC", "<"
	}

	query := `
	SELECT id, resource_id, parent_id, author_id, text, html, status, reply_count, created_at
	FROM comments
	WHERE resource_id = $1 AND top_id IS NULL`
	args := []any{resource, limit + 1}
	if cursor != "" {
		query += ` AND (created_at, id) ` + cmp + ` (SELECT created_at, id FROM comments WHERE id = $3)`
		args = append(args, cursor)
	}
	query += ` ORDER BY created_at ` + order + `, id ` + order + ` LIMIT $2`

	return s.queryPage(query, args, limit)
}

func (s *Storage) ListReplies(threadId domain.CommentId, limit int, cursor domain.Cursor) (*service.CommentPage, error) {
	// Replies always read oldest-first
	query := `
	SELECT id, resource_id, parent_id, author_id, text, html, status, reply_count, created_at
	FROM comments
	WHERE top_id = $1`
	args := []any{threadId, limit + 1}
	if cursor != "" {
		query += ` AND (created_at, id) > (SELECT created_at, id FROM comments WHERE id = $3)`
		args = append(args, cursor)
	}
	query += ` ORDER BY created_at ASC, id ASC LIMIT $2`

	return s.queryPage(query, args, limit)
}

// queryPage fetches limit+1 rows to learn whether a next page exists.
func (s *Storage) queryPage(query string, args []any, limit int) (*service.CommentPage, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := &service.CommentPage{Comments: comments}
	if len(comments) > limit {
		page.Comments = comments[:limit]
		page.NextCursor = comments[limit-1].Id
	}
	return page, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanComment(row scannable) (domain.Comment, error) {
	var c domain.Comment
	var parentId, text, html sql.NullString
	err := row.Scan(&c.Id, &c.ResourceId, &parentId, &c.AuthorId, &text, &html, (*string)(&c.Status), &c.ReplyCount, &c.CreatedAt)
	if err != nil {
		return domain.Comment{}, err
	}
	if parentId.Valid {
		p := parentId.String
		c.ParentId = &p
	}
	if text.Valid {
		c.Content = &domain.Content{Text: text.String, Html: html.String}
	}
	return c, nil
}
