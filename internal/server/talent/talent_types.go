package talent

import (
	"errors"
	"time"
)

const DefaultStatus = "Active"

var (
	ErrNotFound       = errors.New("talent not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrValidation     = errors.New("validation failed")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUploadDisabled = errors.New("file uploads are not configured")
)

type Address struct {
	Street   string `json:"street,omitempty"`
	Building string `json:"building,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

type Social struct {
	LinkedIn      string `json:"linkedin,omitempty"`
	GitHub        string `json:"github,omitempty"`
	Portfolio     string `json:"portfolio,omitempty"`
	HuggingFace   string `json:"huggingface,omitempty"`
	StackOverflow string `json:"stackoverflow,omitempty"`
	Twitter       string `json:"twitter,omitempty"`
}

type Skill struct {
	Name  string `json:"name,omitempty"`
	Usage string `json:"usage,omitempty"`
	Exp   string `json:"exp,omitempty"`
	Color string `json:"color,omitempty"`
}

// Display holds the preformatted strings the profile page renders
type Display struct {
	DisplayTitle    string `json:"displayTitle,omitempty"`
	DisplaySubtitle string `json:"displaySubtitle,omitempty"`
	DisplayMeta     string `json:"displayMeta,omitempty"`
	DisplayDesc     string `json:"displayDesc,omitempty"`
}

type Experience struct {
	Current     string `json:"current,omitempty"`
	Type        string `json:"type,omitempty"`
	ExpYears    string `json:"expYears,omitempty"`
	ExpMonths   string `json:"expMonths,omitempty"`
	Company     string `json:"company,omitempty"`
	Role        string `json:"role,omitempty"`
	Location    string `json:"location,omitempty"`
	JoinMonth   string `json:"joinMonth,omitempty"`
	JoinYear    string `json:"joinYear,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Description string `json:"description,omitempty"`
	Display
}

type Education struct {
	Institute   string `json:"institute,omitempty"`
	Degree      string `json:"degree,omitempty"`
	StartMonth  string `json:"startMonth,omitempty"`
	StartYear   string `json:"startYear,omitempty"`
	EndMonth    string `json:"endMonth,omitempty"`
	EndYear     string `json:"endYear,omitempty"`
	Description string `json:"description,omitempty"`
	Display
}

type Certification struct {
	Institution string `json:"institution,omitempty"`
	Company     string `json:"company,omitempty"`
	JoinMonth   string `json:"joinMonth,omitempty"`
	JoinYear    string `json:"joinYear,omitempty"`
	Description string `json:"description,omitempty"`
	Display
}

// Talent is a candidate profile. JSON names match the frontend.
type Talent struct {
	ID                string          `json:"_id"`
	FullName          string          `json:"fullName"`
	Title             string          `json:"title"`
	Status            string          `json:"status"`
	NextAvailableDate string          `json:"nextAvailableDate,omitempty"`
	Company           string          `json:"company,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Email             string          `json:"email"`
	Address           Address         `json:"address"`
	ProfileImage      string          `json:"profileImage,omitempty"`
	Resume            string          `json:"resume,omitempty"`
	Social            Social          `json:"social"`
	About             string          `json:"about,omitempty"`
	TopSkills         []Skill         `json:"topSkills"`
	Tools             []string        `json:"tools"`
	Experiences       []Experience    `json:"experiences"`
	Education         []Education     `json:"education"`
	Certifications    []Certification `json:"certifications"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Upload field names accepted alongside a talent
const (
	FieldProfileImage = "profileImage"
	FieldResume       = "resume"
)
