package talent

import (
	"bytes"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gensquad/talentbase/internal/utils"
	"github.com/goccy/go-json"
)

// nestedFields arrive as JSON encoded strings in multipart forms
var nestedFields = mapset.NewSet(
	"address", "social", "topSkills", "tools", "experiences", "education", "certifications",
)

// TalentInput carries the fields of a create or update request. A nil field
// was not sent.
type TalentInput struct {
	FullName          *string
	Title             *string
	Status            *string
	NextAvailableDate *string
	Company           *string
	Phone             *string
	Email             *string
	ProfileImage      *string
	Resume            *string
	About             *string
	Address           *Address
	Social            *Social
	TopSkills         *[]Skill
	Tools             *[]string
	Experiences       *[]Experience
	Education         *[]Education
	Certifications    *[]Certification
}

// DecodeJSON reads a JSON request body. Nested fields may be given either as
// JSON values or as JSON encoded strings.
func DecodeJSON(body []byte) (*TalentInput, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	in := &TalentInput{}
	for name, raw := range fields {
		if err := in.setRaw(name, raw); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// SetFormValue applies one multipart form value
func (in *TalentInput) SetFormValue(name, value string) error {
	if nestedFields.Contains(name) {
		return in.setNested(name, []byte(value))
	}
	in.setString(name, value)
	return nil
}

func (in *TalentInput) setRaw(name string, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if nestedFields.Contains(name) {
		if raw[0] == '"' {
			var encoded string
			if err := json.Unmarshal(raw, &encoded); err != nil {
				return fieldError(name, err)
			}
			raw = []byte(encoded)
		}
		return in.setNested(name, raw)
	}

	target := in.stringField(name)
	if target == nil {
		return nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return fieldError(name, err)
	}
	*target = &value
	return nil
}

func (in *TalentInput) setString(name, value string) {
	if target := in.stringField(name); target != nil {
		*target = &value
	}
}

// stringField maps a wire name to its scalar field. Unknown names yield nil
// and are ignored.
func (in *TalentInput) stringField(name string) **string {
	switch name {
	case "fullName":
		return &in.FullName
	case "title":
		return &in.Title
	case "status":
		return &in.Status
	case "nextAvailableDate":
		return &in.NextAvailableDate
	case "company":
		return &in.Company
	case "phone":
		return &in.Phone
	case "email":
		return &in.Email
	case FieldProfileImage:
		return &in.ProfileImage
	case FieldResume:
		return &in.Resume
	case "about":
		return &in.About
	}
	return nil
}

func (in *TalentInput) setNested(name string, raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var err error
	switch name {
	case "address":
		in.Address, err = decodeInto[Address](raw)
	case "social":
		in.Social, err = decodeInto[Social](raw)
	case "topSkills":
		in.TopSkills, err = decodeInto[[]Skill](raw)
	case "tools":
		in.Tools, err = decodeInto[[]string](raw)
	case "experiences":
		in.Experiences, err = decodeInto[[]Experience](raw)
	case "education":
		in.Education, err = decodeInto[[]Education](raw)
	case "certifications":
		in.Certifications, err = decodeInto[[]Certification](raw)
	}
	if err != nil {
		return fieldError(name, err)
	}
	return nil
}

func decodeInto[T any](raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func fieldError(name string, err error) error {
	return fmt.Errorf("%w: field %q: %w", ErrInvalidInput, name, err)
}

// normalize trims identity fields and fills defaults
func (t *Talent) normalize() {
	t.FullName = strings.TrimSpace(t.FullName)
	t.Title = strings.TrimSpace(t.Title)
	t.Email = utils.NormalizeEmail(t.Email)
	t.Status = strings.TrimSpace(t.Status)
	if t.Status == "" {
		t.Status = DefaultStatus
	}
	if t.TopSkills == nil {
		t.TopSkills = []Skill{}
	}
	if t.Tools == nil {
		t.Tools = []string{}
	}
	if t.Experiences == nil {
		t.Experiences = []Experience{}
	}
	if t.Education == nil {
		t.Education = []Education{}
	}
	if t.Certifications == nil {
		t.Certifications = []Certification{}
	}
}

func (t *Talent) validate() error {
	if t.FullName == "" {
		return fmt.Errorf("%w: fullName is required", ErrValidation)
	}
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if err := utils.ValidateEmail(t.Email); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Apply copies every provided field onto t
func (in *TalentInput) Apply(t *Talent) {
	setIf(&t.FullName, in.FullName)
	setIf(&t.Title, in.Title)
	setIf(&t.Status, in.Status)
	setIf(&t.NextAvailableDate, in.NextAvailableDate)
	setIf(&t.Company, in.Company)
	setIf(&t.Phone, in.Phone)
	setIf(&t.Email, in.Email)
	setIf(&t.ProfileImage, in.ProfileImage)
	setIf(&t.Resume, in.Resume)
	setIf(&t.About, in.About)
	setIf(&t.Address, in.Address)
	setIf(&t.Social, in.Social)
	setIf(&t.TopSkills, in.TopSkills)
	setIf(&t.Tools, in.Tools)
	setIf(&t.Experiences, in.Experiences)
	setIf(&t.Education, in.Education)
	setIf(&t.Certifications, in.Certifications)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
