package usecase

import (
	"bytes"
	"context"
	"io"
	"sync"

	"portfolio-gateway/internal/domain"
)

// WizardState is one of the three steps of the generation flow.
type WizardState string

const (
	StateUpload         WizardState = "upload"
	StateSelectTemplate WizardState = "select_template"
	StateGenerating     WizardState = "generating"
)

// Generator issues the single outbound generation request.
type Generator interface {
	GeneratePortfolio(ctx context.Context, fileName string, file io.Reader, templateID string) (map[string]interface{}, error)
}

// ProfileValidator checks a generated profile before it is handed onward.
type ProfileValidator func(profile map[string]interface{}) error

// Wizard is the linear upload -> template -> generate flow. One instance per
// user; at most one generation request is in flight per instance, and the
// generate control stays refused while one is.
//
// A failed generation returns to template selection and keeps the uploaded
// file, so the user retries without re-uploading.
type Wizard struct {
	mu         sync.Mutex
	state      WizardState
	fileName   string
	fileData   []byte
	templateID string
	generating bool

	gen      Generator
	validate ProfileValidator
}

func NewWizard(gen Generator, validate ProfileValidator) *Wizard {
	return &Wizard{state: StateUpload, gen: gen, validate: validate}
}

// State returns the current step.
func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// HasFile reports whether a resume has been attached.
func (w *Wizard) HasFile() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.fileData) > 0
}

// TemplateID returns the chosen template, or "".
func (w *Wizard) TemplateID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.templateID
}

// AttachResume stores the chosen file. Replacing the file is allowed until
// generation starts.
func (w *Wizard) AttachResume(name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateGenerating {
		return &domain.ValidationError{Message: "Generation is in progress."}
	}
	if len(data) == 0 {
		return &domain.ValidationError{Field: "resume", Message: "Please choose a resume file."}
	}
	w.fileName = name
	w.fileData = data
	return nil
}

// Next advances Upload -> SelectTemplate. Without a file it surfaces a
// validation message and the state does not change.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateUpload {
		return &domain.ValidationError{Message: "Nothing to advance from here."}
	}
	if len(w.fileData) == 0 {
		return &domain.ValidationError{Field: "resume", Message: "Please choose a resume file first."}
	}
	w.state = StateSelectTemplate
	return nil
}

// SelectTemplate records the chosen template id.
func (w *Wizard) SelectTemplate(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateSelectTemplate {
		return &domain.ValidationError{Message: "Choose a resume file first."}
	}
	if id == "" {
		return &domain.ValidationError{Field: "template", Message: "Please pick a template."}
	}
	w.templateID = id
	return nil
}

// Generate issues the generation request. On success the result is handed to
// the editor screen and the wizard resets; the instance holds nothing across
// that boundary. On failure the wizard returns to template selection with
// the file intact and the error is the caller's to render.
func (w *Wizard) Generate(ctx context.Context) (*domain.GenerationResult, error) {
	w.mu.Lock()
	if w.generating {
		w.mu.Unlock()
		return nil, &domain.ValidationError{Message: "Generation is already in progress."}
	}
	if w.state != StateSelectTemplate {
		w.mu.Unlock()
		return nil, &domain.ValidationError{Message: "Upload a resume and pick a template first."}
	}
	if w.templateID == "" {
		w.mu.Unlock()
		return nil, &domain.ValidationError{Field: "template", Message: "Please pick a template before generating."}
	}
	w.generating = true
	w.state = StateGenerating
	fileName, data, templateID := w.fileName, w.fileData, w.templateID
	w.mu.Unlock()

	profile, err := w.gen.GeneratePortfolio(ctx, fileName, bytes.NewReader(data), templateID)
	if err == nil && w.validate != nil {
		if verr := w.validate(profile); verr != nil {
			err = &domain.RequestError{Message: "The generated profile came back malformed. Please try again."}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.generating = false
	if err != nil {
		w.state = StateSelectTemplate
		return nil, err
	}

	result := &domain.GenerationResult{Profile: profile, TemplateID: templateID}
	w.state = StateUpload
	w.fileName = ""
	w.fileData = nil
	w.templateID = ""
	return result, nil
}
