package workflow

import (
	"context"

	"github.com/gensquad/talentbase/internal/github"
)

// GitHubSource adapts the GitHub client to RemoteSource
type GitHubSource struct {
	client *github.Client
}

func NewGitHubSource(client *github.Client) *GitHubSource {
	return &GitHubSource{client: client}
}

// ListFiles returns the blobs of the branch tree. Directories are dropped and
// the blob SHA becomes the content hash.
func (g *GitHubSource) ListFiles(ctx context.Context, owner, repo, branch string) ([]RemoteFileEntry, error) {
	tree, err := g.client.GetTree(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	files := make([]RemoteFileEntry, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if !entry.IsBlob() {
			continue
		}
		files = append(files, RemoteFileEntry{Path: entry.Path, Hash: entry.SHA})
	}
	return files, nil
}

func (g *GitHubSource) FetchContent(ctx context.Context, owner, repo, branch, path string) ([]byte, error) {
	return g.client.GetRawContent(ctx, owner, repo, branch, path)
}
