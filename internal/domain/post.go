package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// WordsPerMinute is the reading speed used for ReadingTime estimates.
const WordsPerMinute = 200

// Post is a blog post loaded from a markdown file.
type Post struct {
	Slug        string    `validate:"required,slug"`
	Title       string    `validate:"required,max=200"`
	Description string    `validate:"max=500"`
	Date        time.Time `validate:"required"`
	Updated     time.Time `validate:"omitempty,gtefield=Date"`
	Tags        []string  `validate:"dive,required,slug"`
	Draft       bool
	Cover       string // image name under images/, resolved by the media library
	HTML        string // rendered markdown body
	ReadingTime int    // minutes
}

// Validate checks the post's metadata.
func (p *Post) Validate() error {
	return validateStruct("Post.Validate", p)
}

// HasTag reports whether the post is tagged with tag.
func (p *Post) HasTag(tag string) bool {
	return lo.Contains(p.Tags, tag)
}

// Project is a portfolio entry listed on the projects page.
type Project struct {
	Name     string   `yaml:"name" validate:"required,max=100"`
	Summary  string   `yaml:"summary" validate:"required,max=500"`
	URL      string   `yaml:"url" validate:"omitempty,url"`
	Repo     string   `yaml:"repo" validate:"omitempty,url"`
	Image    string   `yaml:"image"`
	Tags     []string `yaml:"tags"`
	Featured bool     `yaml:"featured"`
	Order    int      `yaml:"order"`
}

// Validate checks the project's fields.
func (p *Project) Validate() error {
	return validateStruct("Project.Validate", p)
}

// Page is a standalone markdown page such as about or privacy.
type Page struct {
	Name  string // file name without extension, used as the route
	Title string
	HTML  string
}

// ReadingTime estimates minutes to read text, never less than one.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs struct tag validation and converts failures to a
// ValidationError keyed by lowercase field name.
func validateStruct(op string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Internal(err, op, "validation could not run")
	}

	ve := &ValidationError{Op: op, Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "slug":
		return "must be lowercase letters, digits and single hyphens"
	case "url":
		return "must be a valid URL"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gtefield":
		return "must not be before " + strings.ToLower(fe.Param())
	default:
		return "is invalid"
	}
}
