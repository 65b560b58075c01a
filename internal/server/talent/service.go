package talent

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gensquad/talentbase/internal/server/blob"
)

var uploadFields = mapset.NewSet(FieldProfileImage, FieldResume)

// Uploader stores profile files. Implemented by blob.BlobService.
type Uploader interface {
	Upload(ctx context.Context, params *blob.UploadParams) (*blob.UploadResult, error)
	Delete(ctx context.Context, key string) error
}

type TalentService struct {
	store    *Store
	uploader Uploader
}

// NewTalentService creates the service. uploader may be nil, in which case
// requests carrying files are rejected.
func NewTalentService(store *Store, uploader Uploader) *TalentService {
	return &TalentService{
		store:    store,
		uploader: uploader,
	}
}

func (s *TalentService) List(ctx context.Context) ([]*Talent, error) {
	return s.store.List(ctx)
}

func (s *TalentService) Get(ctx context.Context, id string) (*Talent, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new talent with its uploaded files
func (s *TalentService) Create(ctx context.Context, in *TalentInput, files []*blob.UploadParams) (*Talent, error) {
	t := &Talent{}
	in.Apply(t)
	t.normalize()
	if err := t.validate(); err != nil {
		return nil, err
	}

	keys, err := s.upload(ctx, t, files)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, t)
	if err != nil {
		s.discard(keys)
		return nil, err
	}

	slog.Info("talent created", "id", created.ID, "uploads", len(keys))
	return created, nil
}

// Update applies the provided fields to an existing talent. Files replace
// the stored URL only when sent.
func (s *TalentService) Update(ctx context.Context, id string, in *TalentInput, files []*blob.UploadParams) (*Talent, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Apply(t)
	t.normalize()
	if err := t.validate(); err != nil {
		return nil, err
	}

	keys, err := s.upload(ctx, t, files)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, t)
	if err != nil {
		s.discard(keys)
		return nil, err
	}

	slog.Info("talent updated", "id", updated.ID, "uploads", len(keys))
	return updated, nil
}

// upload stores files and points the matching talent fields at them. On
// failure nothing uploaded by this call is kept.
func (s *TalentService) upload(ctx context.Context, t *Talent, files []*blob.UploadParams) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.uploader == nil {
		return nil, ErrUploadDisabled
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, f := range files {
		if !uploadFields.Contains(f.Field) {
			return nil, fmt.Errorf("%w: unexpected file field %q", ErrInvalidInput, f.Field)
		}
		if !seen.Add(f.Field) {
			return nil, fmt.Errorf("%w: more than one file for %q", ErrInvalidInput, f.Field)
		}
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		res, err := s.uploader.Upload(ctx, f)
		if err != nil {
			s.discard(keys)
			return nil, fmt.Errorf("upload %s: %w", f.Field, err)
		}
		keys = append(keys, res.Key)

		switch f.Field {
		case FieldProfileImage:
			t.ProfileImage = res.URL
		case FieldResume:
			t.Resume = res.URL
		}
	}
	return keys, nil
}

// discard removes uploads that ended up unreferenced
func (s *TalentService) discard(keys []string) {
	for _, key := range keys {
		if err := s.uploader.Delete(context.Background(), key); err != nil {
			slog.Warn("talent discard upload", "key", key, "error", err)
		}
	}
}
