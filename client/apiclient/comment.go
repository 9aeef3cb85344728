package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/domain"
	internal_errors "github.com/threadkeep/threadkeep/shared/errors"
	"github.com/threadkeep/threadkeep/shared/utils"
)

// === Comment Methods ===

func (c *APIClient) ListComments(resource domain.ResourceId, limit int, cursor domain.Cursor, sort domain.SortOrder) (*api.ListCommentsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", string(cursor))
	}
	if sort != "" {
		q.Set("sort", string(sort))
	}
	path := fmt.Sprintf("/v1/resources/%s/comments", url.PathEscape(resource))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.do("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var response api.ListCommentsResponse
	if err := utils.Decode(resp.Body, &response); err != nil {
		return nil, fmt.Errorf("cannot decode comments response: %w", err)
	}
	return &response, nil
}

func (c *APIClient) ListReplies(commentId domain.CommentId, limit int, cursor domain.Cursor) (*api.ListRepliesResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", string(cursor))
	}
	path := fmt.Sprintf("/v1/comments/%s/replies", url.PathEscape(commentId))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.do("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var response api.ListRepliesResponse
	if err := utils.Decode(resp.Body, &response); err != nil {
		return nil, fmt.Errorf("cannot decode replies response: %w", err)
	}
	return &response, nil
}

func (c *APIClient) CreateComment(resource domain.ResourceId, data api.CreateCommentRequest) (domain.Comment, error) {
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to marshal comment data: %w", err)
	}

	resp, err := c.do("POST", fmt.Sprintf("/v1/resources/%s/comments", url.PathEscape(resource)), bytes.NewBuffer(jsonBody))
	if err != nil {
		return domain.Comment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return domain.Comment{}, statusError(resp)
	}

	var response api.CreateCommentResponse
	if err := utils.Decode(resp.Body, &response); err != nil {
		return domain.Comment{}, fmt.Errorf("cannot decode created comment: %w", err)
	}
	return response.Comment, nil
}

func (c *APIClient) DeleteComment(commentId domain.CommentId) error {
	resp, err := c.do("DELETE", fmt.Sprintf("/v1/comments/%s", url.PathEscape(commentId)), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// statusError turns a non-2xx response into an error carrying the backend's
// status code and message.
func statusError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	msg := string(bytes.TrimSpace(bodyBytes))
	if msg == "" {
		msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}
	return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: resp.StatusCode}
}
