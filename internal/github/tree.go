package github

import (
	"context"
	"fmt"
)

const v3Tree = "/repos/%s/%s/git/trees/%s"

// GetTree returns the recursive listing of a branch. A response without a
// tree, or one GitHub marked as truncated, is an error: callers get either
// the complete listing or nothing.
func (c *Client) GetTree(ctx context.Context, owner, repo, branch string) (*Tree, error) {
	var tree Tree

	endpoint := c.apiURL + fmt.Sprintf(v3Tree, escapePath(owner), escapePath(repo), escapePath(branch))
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader(HeaderAccept, "application/vnd.github+json").
		SetQueryParam("recursive", "1").
		SetSuccessResult(&tree).
		Get(endpoint)

	if err := handleAPIError(res, err, "get tree"); err != nil {
		return nil, err
	}

	if tree.Entries == nil {
		return nil, ErrMalformedTree
	}

	if tree.Truncated {
		return nil, ErrTruncatedTree
	}

	return &tree, nil
}
