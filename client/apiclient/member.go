package apiclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/threadkeep/threadkeep/shared/api"
	"github.com/threadkeep/threadkeep/shared/domain"
	"github.com/threadkeep/threadkeep/shared/utils"
)

// === Member Methods ===

func (c *APIClient) GetMembers(ids []domain.MemberId) ([]domain.Member, error) {
	if len(ids) == 0 {
		return []domain.Member{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))

	resp, err := c.do("GET", "/v1/members?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var response api.MembersResponse
	if err := utils.Decode(resp.Body, &response); err != nil {
		return nil, fmt.Errorf("cannot decode members response: %w", err)
	}
	return response.Members, nil
}
