package talent

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gensquad/talentbase/internal/server/blob"
	"github.com/gensquad/talentbase/internal/server/talent"
	"github.com/gin-gonic/gin"
)

const maxJSONBody = 1 << 20

// talentRequest is a decoded create or update body with any attached files
type talentRequest struct {
	Input *talent.TalentInput
	Files []*blob.UploadParams

	closers []io.Closer
}

func (r *talentRequest) Close() {
	for _, c := range r.closers {
		c.Close()
	}
}

// readTalentRequest accepts multipart/form-data, where nested fields are JSON
// strings, or a JSON body
func readTalentRequest(ctx *gin.Context) (*talentRequest, error) {
	if strings.HasPrefix(ctx.ContentType(), gin.MIMEMultipartPOSTForm) {
		return readMultipart(ctx)
	}

	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxJSONBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxJSONBody {
		return nil, errors.New("request body too large")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return &talentRequest{Input: &talent.TalentInput{}}, nil
	}

	in, err := talent.DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	return &talentRequest{Input: in}, nil
}

func readMultipart(ctx *gin.Context) (*talentRequest, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	req := &talentRequest{Input: &talent.TalentInput{}}
	for name, values := range form.Value {
		if len(values) == 0 {
			continue
		}
		if err := req.Input.SetFormValue(name, values[0]); err != nil {
			return nil, err
		}
	}

	for field, headers := range form.File {
		for _, fh := range headers {
			fd, err := fh.Open()
			if err != nil {
				req.Close()
				return nil, fmt.Errorf("open %s: %w", field, err)
			}
			req.closers = append(req.closers, fd)
			req.Files = append(req.Files, &blob.UploadParams{
				Field:    field,
				FileName: fh.Filename,
				Size:     fh.Size,
				Body:     fd,
			})
		}
	}

	return req, nil
}
