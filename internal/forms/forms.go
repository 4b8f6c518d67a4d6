// Package forms checks user input before it is sent to the backend.
package forms

import (
	"fmt"
	"strings"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/validation"
)

type LoginForm struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=5,max=255"`
}

type RegisterForm struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Surname  string `json:"surname" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=255"`
}

func (f RegisterForm) Request() api.RegisterRequest {
	return api.RegisterRequest{
		Username: strings.TrimSpace(f.Username),
		Name:     strings.TrimSpace(f.Name),
		Surname:  strings.TrimSpace(f.Surname),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

type DeckForm struct {
	Title       string   `json:"title" yaml:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description" yaml:"description,omitempty" validate:"max=1000"`
	Categories  []string `json:"categories" yaml:"categories,omitempty" validate:"dive,required"`
	Tags        []string `json:"tags" yaml:"tags,omitempty" validate:"dive,required"`
}

func (f DeckForm) Create() api.DeckCreate {
	create := api.DeckCreate{
		Title:      strings.TrimSpace(f.Title),
		Categories: f.Categories,
		Tags:       f.Tags,
	}
	if description := strings.TrimSpace(f.Description); description != "" {
		create.Description = &description
	}
	return create
}

type CardForm struct {
	FrontText string `json:"front_text" yaml:"front" validate:"required"`
	BackText  string `json:"back_text" yaml:"back" validate:"required"`
	// Image fields are local paths or URLs; paths are uploaded before the card is saved.
	FrontImage string `json:"front_image" yaml:"front_image,omitempty"`
	BackImage  string `json:"back_image" yaml:"back_image,omitempty"`
}

type Validator struct {
	validator *validation.Validator
}

func NewValidator() (*Validator, error) {
	v, err := validation.New("json")
	if err != nil {
		return nil, fmt.Errorf("validation.New() > %w", err)
	}
	return &Validator{validator: v}, nil
}

// Validate checks one of the forms of this package. Text fields are trimmed first
// so whitespace alone never satisfies a required field.
func (v *Validator) Validate(form any) error {
	switch f := form.(type) {
	case LoginForm:
		f.Login = strings.TrimSpace(f.Login)
		form = f
	case RegisterForm:
		f.Username = strings.TrimSpace(f.Username)
		f.Email = strings.TrimSpace(f.Email)
		form = f
	case DeckForm:
		f.Title = strings.TrimSpace(f.Title)
		form = f
	case CardForm:
		f.FrontText = strings.TrimSpace(f.FrontText)
		f.BackText = strings.TrimSpace(f.BackText)
		form = f
	}

	if err := v.validator.Struct(form); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}
