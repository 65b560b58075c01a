package github

const (
	EntryTypeBlob = "blob"
	EntryTypeTree = "tree"
)

// Tree is the git tree listing of a ref
type Tree struct {
	SHA       string      `json:"sha"`
	Entries   []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// TreeEntry is one file or directory of a tree listing
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

// IsBlob reports whether the entry is a file
func (e *TreeEntry) IsBlob() bool {
	return e.Type == EntryTypeBlob
}
