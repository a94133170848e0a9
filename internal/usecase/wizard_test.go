package usecase

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"

	"portfolio-gateway/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records calls and returns a canned profile or error.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	profile map[string]interface{}
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeGenerator) GeneratePortfolio(ctx context.Context, fileName string, file io.Reader, templateID string) (map[string]interface{}, error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.mu.Unlock()
	if first && f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.profile, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func readyWizard(t *testing.T, gen Generator) *Wizard {
	t.Helper()
	w := NewWizard(gen, nil)
	require.NoError(t, w.AttachResume("resume.pdf", []byte("%PDF-1.4")))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectTemplate("modern"))
	return w
}

func TestNextWithoutFile(t *testing.T) {
	gen := &fakeGenerator{}
	w := NewWizard(gen, nil)

	err := w.Next()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, StateUpload, w.State(), "state must not change")
	assert.Zero(t, gen.callCount(), "no network call may be issued")
}

func TestGenerateWithoutTemplate(t *testing.T) {
	gen := &fakeGenerator{}
	w := NewWizard(gen, nil)
	require.NoError(t, w.AttachResume("resume.pdf", []byte("x")))
	require.NoError(t, w.Next())

	_, err := w.Generate(context.Background())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, gen.callCount())
}

func TestGenerateSuccessResetsWizard(t *testing.T) {
	gen := &fakeGenerator{profile: map[string]interface{}{"meta": map[string]interface{}{"name": "Hardik"}}}
	w := readyWizard(t, gen)

	result, err := w.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "modern", result.TemplateID)
	assert.NotNil(t, result.Profile)

	assert.Equal(t, StateUpload, w.State())
	assert.False(t, w.HasFile())
	assert.Empty(t, w.TemplateID())
}

func TestGenerateFailureKeepsFile(t *testing.T) {
	gen := &fakeGenerator{err: &domain.RequestError{StatusCode: http.StatusBadGateway, Message: "boom"}}
	w := readyWizard(t, gen)

	_, err := w.Generate(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateSelectTemplate, w.State(), "failure returns to template selection")
	assert.True(t, w.HasFile(), "chosen file survives a failed generation")
	assert.Equal(t, "modern", w.TemplateID())
}

func TestGenerateAuthFailure(t *testing.T) {
	gen := &fakeGenerator{err: &domain.RequestError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}}
	w := readyWizard(t, gen)

	_, err := w.Generate(context.Background())
	require.True(t, domain.IsAuthError(err))
	assert.NotEqual(t, StateGenerating, w.State())
}

func TestGenerateSingleFlight(t *testing.T) {
	gen := &fakeGenerator{
		profile: map[string]interface{}{"meta": map[string]interface{}{"name": "H"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	w := readyWizard(t, gen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = w.Generate(context.Background())
	}()

	<-gen.started

	_, err := w.Generate(context.Background())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "in progress")

	close(gen.release)
	<-done
	assert.Equal(t, 1, gen.callCount())
}

func TestGenerateInvalidProfileIsFailure(t *testing.T) {
	gen := &fakeGenerator{profile: map[string]interface{}{"meta": map[string]interface{}{}}}
	w := NewWizard(gen, func(map[string]interface{}) error {
		return &domain.ValidationError{Message: "missing name"}
	})
	require.NoError(t, w.AttachResume("resume.pdf", []byte("x")))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectTemplate("modern"))

	_, err := w.Generate(context.Background())
	var re *domain.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StateSelectTemplate, w.State())
	assert.True(t, w.HasFile())
}
