package talent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gensquad/talentbase/internal/db"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const talentColumns = `id, full_name, title, status, next_available_date, company, phone, email,
	address, profile_image, resume, social, about, top_skills, tools, experiences, education,
	certifications, created_at, updated_at`

const insertSQL = `
INSERT INTO talents (` + talentColumns + `)
VALUES (:id, :full_name, :title, :status, :next_available_date, :company, :phone, :email,
	:address, :profile_image, :resume, :social, :about, :top_skills, :tools, :experiences, :education,
	:certifications, :created_at, :updated_at)`

const updateSQL = `
UPDATE talents SET
	full_name = :full_name,
	title = :title,
	status = :status,
	next_available_date = :next_available_date,
	company = :company,
	phone = :phone,
	email = :email,
	address = :address,
	profile_image = :profile_image,
	resume = :resume,
	social = :social,
	about = :about,
	top_skills = :top_skills,
	tools = :tools,
	experiences = :experiences,
	education = :education,
	certifications = :certifications,
	updated_at = :updated_at
WHERE id = :id`

// talentRow is the sqlite representation. Nested fields are JSON text.
type talentRow struct {
	ID                string `db:"id"`
	FullName          string `db:"full_name"`
	Title             string `db:"title"`
	Status            string `db:"status"`
	NextAvailableDate string `db:"next_available_date"`
	Company           string `db:"company"`
	Phone             string `db:"phone"`
	Email             string `db:"email"`
	Address           string `db:"address"`
	ProfileImage      string `db:"profile_image"`
	Resume            string `db:"resume"`
	Social            string `db:"social"`
	About             string `db:"about"`
	TopSkills         string `db:"top_skills"`
	Tools             string `db:"tools"`
	Experiences       string `db:"experiences"`
	Education         string `db:"education"`
	Certifications    string `db:"certifications"`
	CreatedAt         string `db:"created_at"`
	UpdatedAt         string `db:"updated_at"`
}

func newTalentRow(t *Talent) (*talentRow, error) {
	row := &talentRow{
		ID:                t.ID,
		FullName:          t.FullName,
		Title:             t.Title,
		Status:            t.Status,
		NextAvailableDate: t.NextAvailableDate,
		Company:           t.Company,
		Phone:             t.Phone,
		Email:             t.Email,
		ProfileImage:      t.ProfileImage,
		Resume:            t.Resume,
		About:             t.About,
		CreatedAt:         db.FormatTime(t.CreatedAt),
		UpdatedAt:         db.FormatTime(t.UpdatedAt),
	}

	encode := []struct {
		dst *string
		src any
	}{
		{&row.Address, t.Address},
		{&row.Social, t.Social},
		{&row.TopSkills, t.TopSkills},
		{&row.Tools, t.Tools},
		{&row.Experiences, t.Experiences},
		{&row.Education, t.Education},
		{&row.Certifications, t.Certifications},
	}
	for _, e := range encode {
		data, err := json.Marshal(e.src)
		if err != nil {
			return nil, fmt.Errorf("encode talent: %w", err)
		}
		*e.dst = string(data)
	}

	return row, nil
}

func (r *talentRow) toTalent() (*Talent, error) {
	t := &Talent{
		ID:                r.ID,
		FullName:          r.FullName,
		Title:             r.Title,
		Status:            r.Status,
		NextAvailableDate: r.NextAvailableDate,
		Company:           r.Company,
		Phone:             r.Phone,
		Email:             r.Email,
		ProfileImage:      r.ProfileImage,
		Resume:            r.Resume,
		About:             r.About,
		CreatedAt:         db.ParseTime(r.CreatedAt),
		UpdatedAt:         db.ParseTime(r.UpdatedAt),
	}

	decode := []struct {
		src string
		dst any
	}{
		{r.Address, &t.Address},
		{r.Social, &t.Social},
		{r.TopSkills, &t.TopSkills},
		{r.Tools, &t.Tools},
		{r.Experiences, &t.Experiences},
		{r.Education, &t.Education},
		{r.Certifications, &t.Certifications},
	}
	for _, d := range decode {
		if d.src == "" {
			continue
		}
		if err := json.Unmarshal([]byte(d.src), d.dst); err != nil {
			return nil, fmt.Errorf("decode talent %q: %w", r.ID, err)
		}
	}

	t.normalize()
	return t, nil
}

// Store persists talents in SQLite
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Create inserts t with a fresh id and timestamps
func (s *Store) Create(ctx context.Context, t *Talent) (*Talent, error) {
	created := *t
	created.ID = uuid.NewString()
	created.CreatedAt = s.now().UTC()
	created.UpdatedAt = created.CreatedAt

	row, err := newTalentRow(&created)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.NamedExecContext(ctx, insertSQL, row); err != nil {
		if isDuplicateEmail(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert talent: %w", err)
	}

	return s.Get(ctx, created.ID)
}

// Update overwrites every mutable field of the talent with t.ID
func (s *Store) Update(ctx context.Context, t *Talent) (*Talent, error) {
	updated := *t
	updated.UpdatedAt = s.now().UTC()

	row, err := newTalentRow(&updated)
	if err != nil {
		return nil, err
	}

	res, err := s.db.NamedExecContext(ctx, updateSQL, row)
	if err != nil {
		if isDuplicateEmail(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update talent %q: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, t.ID)
}

// Get returns the talent with id or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*Talent, error) {
	var row talentRow
	err := s.db.GetContext(ctx, &row, "SELECT "+talentColumns+" FROM talents WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get talent %q: %w", id, err)
	}
	return row.toTalent()
}

// List returns every talent, newest first
func (s *Store) List(ctx context.Context) ([]*Talent, error) {
	var rows []talentRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT "+talentColumns+" FROM talents ORDER BY created_at DESC, id"); err != nil {
		return nil, fmt.Errorf("list talents: %w", err)
	}

	talents := make([]*Talent, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toTalent()
		if err != nil {
			return nil, err
		}
		talents = append(talents, t)
	}
	return talents, nil
}

func isDuplicateEmail(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed: talents.email")
}
