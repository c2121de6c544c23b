package adapter

import (
	"context"
	"log/slog"

	"applypilot/internal/browser"
)

// Operator is the applicant data poured into forms.
type Operator struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	ResumePath string
}

// FieldSelectors names where each recognized input kind lives on a platform's
// form steps. Any selector may be empty: that capability is simply skipped.
type FieldSelectors struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	ResumeUpload     string
	ExperienceSelect string
	EducationSelect  string
	YesRadios        string
	TermsCheckboxes  string
}

// Dropdown answers. Entry-level everywhere; bachelor's for education.
var (
	experienceOptions = []string{"0-1", "entry", "less than 1", "<1"}
	educationOptions  = []string{"bachelor"}
)

// FormFiller fills every input it recognizes on the current form step.
// Best-effort by design: fields the step doesn't have are skipped, fields
// that already hold a value are left alone.
type FormFiller struct {
	Operator Operator
	Fields   FieldSelectors
	Logger   *slog.Logger
}

func (f *FormFiller) fillText(ctx context.Context, s browser.Session, selector, text string) {
	if selector == "" || text == "" {
		return
	}
	if ok, _ := s.Exists(ctx, selector); !ok {
		return
	}
	if v, _ := s.Value(ctx, selector); v != "" {
		return
	}
	if err := s.Type(ctx, selector, text); err != nil {
		f.Logger.Debug("fill field", "selector", selector, "error", err)
	}
}

func (f *FormFiller) FillStep(ctx context.Context, s browser.Session) error {
	f.fillText(ctx, s, f.Fields.FirstName, f.Operator.FirstName)
	f.fillText(ctx, s, f.Fields.LastName, f.Operator.LastName)
	f.fillText(ctx, s, f.Fields.Email, f.Operator.Email)
	f.fillText(ctx, s, f.Fields.Phone, f.Operator.Phone)

	if f.Fields.ResumeUpload != "" && f.Operator.ResumePath != "" {
		if ok, _ := s.Exists(ctx, f.Fields.ResumeUpload); ok {
			if err := s.Upload(ctx, f.Fields.ResumeUpload, f.Operator.ResumePath); err != nil {
				f.Logger.Debug("resume upload", "error", err)
			}
		}
	}

	if f.Fields.ExperienceSelect != "" {
		if _, err := s.SelectOption(ctx, f.Fields.ExperienceSelect, experienceOptions); err != nil {
			f.Logger.Debug("experience select", "error", err)
		}
	}
	if f.Fields.EducationSelect != "" {
		if _, err := s.SelectOption(ctx, f.Fields.EducationSelect, educationOptions); err != nil {
			f.Logger.Debug("education select", "error", err)
		}
	}

	// Qualification yes/no questions: answer yes.
	if f.Fields.YesRadios != "" {
		if _, err := s.ClickAll(ctx, f.Fields.YesRadios); err != nil {
			f.Logger.Debug("yes radios", "error", err)
		}
	}
	if f.Fields.TermsCheckboxes != "" {
		if _, err := s.ClickAll(ctx, f.Fields.TermsCheckboxes); err != nil {
			f.Logger.Debug("terms checkboxes", "error", err)
		}
	}
	return nil
}
