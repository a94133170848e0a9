package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"

	"portfolio-gateway/internal/domain"
	"portfolio-gateway/internal/model"
)

// PortfolioFetcher retrieves a published portfolio by tenant slug.
type PortfolioFetcher interface {
	PublicPortfolio(ctx context.Context, slug string) (*domain.PublicPortfolio, error)
}

// Renderer converts rendered HTML into a PDF document.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// PublicSite serves the read-only tenant view: it fetches a published
// portfolio, renders it through the portfolio template, and can export the
// result as a PDF.
type PublicSite struct {
	api      PortfolioFetcher
	renderer Renderer
	tplDir   string
}

func NewPublicSite(api PortfolioFetcher, renderer Renderer, tplDir string) *PublicSite {
	return &PublicSite{api: api, renderer: renderer, tplDir: tplDir}
}

// portfolioView is the flattened shape the HTML template consumes.
type portfolioView struct {
	Name       string
	Headline   string
	Summary    string
	Skills     []string
	Experience []model.Experience
	Projects   []model.Project
	Education  []model.Education
	Links      []string
}

// RenderHTML fetches the portfolio for slug and renders it to HTML.
func (p *PublicSite) RenderHTML(ctx context.Context, slug string) (string, error) {
	portfolio, err := p.api.PublicPortfolio(ctx, slug)
	if err != nil {
		return "", err
	}
	return p.renderProfile(portfolio.Profile)
}

// ExportPDF renders the portfolio for slug and converts it to a PDF.
func (p *PublicSite) ExportPDF(ctx context.Context, slug string) ([]byte, error) {
	if p.renderer == nil {
		return nil, fmt.Errorf("pdf export is not configured")
	}
	html, err := p.RenderHTML(ctx, slug)
	if err != nil {
		return nil, err
	}
	return p.renderer.RenderHTMLToPDF(ctx, html)
}

func (p *PublicSite) renderProfile(raw map[string]interface{}) (string, error) {
	var profile model.Profile
	b, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("profile not serializable: %w", err)
	}
	if err := json.Unmarshal(b, &profile); err != nil {
		return "", fmt.Errorf("profile does not match the expected shape: %w", err)
	}

	tpl, err := template.ParseFiles(filepath.Join(p.tplDir, "portfolio.html"))
	if err != nil {
		return "", fmt.Errorf("parse portfolio template: %w", err)
	}

	view := portfolioView{
		Name:       profile.Meta.Name,
		Headline:   profile.Meta.Headline,
		Summary:    profile.Summary,
		Skills:     profile.Skills,
		Experience: profile.Experience,
		Projects:   profile.Projects,
		Education:  profile.Education,
		Links:      profile.Links,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render portfolio: %w", err)
	}
	return buf.String(), nil
}
