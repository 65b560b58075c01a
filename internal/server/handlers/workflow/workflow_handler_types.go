package workflow

import (
	"strconv"
	"strings"

	"github.com/gensquad/talentbase/internal/server/workflow"
)

// ListRequest keeps page and limit as raw strings: anything that is not a
// number falls back to the defaults instead of failing the request.
type ListRequest struct {
	Page   string `form:"page"`
	Limit  string `form:"limit"`
	Search string `form:"search"`
}

func (r *ListRequest) Params() workflow.ListParams {
	return workflow.ListParams{
		Page:   leadingInt(r.Page),
		Limit:  leadingInt(r.Limit),
		Search: r.Search,
	}
}

// leadingInt reads the optional sign and digits at the start of s, so "3abc"
// is 3. Anything else is 0, which paging treats as unset.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

type SyncResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Added   int                  `json:"added"`
	Updated int                  `json:"updated"`
	Skipped int                  `json:"skipped"`
	Deleted int                  `json:"deleted"`
	Errors  []workflow.SyncError `json:"errors"`
}
