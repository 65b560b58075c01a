package github

import (
	"context"
	"fmt"
)

// GetRawContent downloads a file at the given branch from the raw content host
func (c *Client) GetRawContent(ctx context.Context, owner, repo, branch, path string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawURL, escapePath(owner), escapePath(repo), escapePath(branch), escapePath(path))

	res, err := c.client.R().
		SetContext(ctx).
		Get(endpoint)

	if err := handleAPIError(res, err, "get raw content"); err != nil {
		return nil, err
	}

	return res.Bytes(), nil
}
