package http

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"portfolio-gateway/internal/domain"
	"portfolio-gateway/internal/forms"
	"portfolio-gateway/internal/usecase"
	"portfolio-gateway/pkg/api"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler wires the application routes to the session store, the backend
// client and the public-site usecase.
type Handler struct {
	sessions  *usecase.SessionStore
	api       *api.Client
	site      *usecase.PublicSite
	validate  usecase.ProfileValidator
	editorKey string

	mu      sync.Mutex
	wizards map[string]*usecase.Wizard
}

func NewHandler(sessions *usecase.SessionStore, client *api.Client, site *usecase.PublicSite, validate usecase.ProfileValidator, editorKey string) *Handler {
	return &Handler{
		sessions:  sessions,
		api:       client,
		site:      site,
		validate:  validate,
		editorKey: editorKey,
		wizards:   map[string]*usecase.Wizard{},
	}
}

// SetupRoutes registers every route. The tenant gate runs first so a tenant
// host short-circuits into the read-only public rendering path.
func (h *Handler) SetupRoutes(app *fiber.App) {
	app.Use(h.TenantGate)

	app.Get("/", h.Landing)
	app.Get("/session", h.Session)
	app.Get("/templates", h.Templates)
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Post("/api/auth/logout", h.Logout)
	app.Post("/api/auth/verify", h.Verify)
	app.Post("/api/auth/forgot-password", h.ForgotPassword)
	app.Post("/api/auth/reset-password", h.ResetPassword)

	guard := RequireAuth(h.sessions)
	app.Get("/portfolio", guard, h.PortfolioPage)
	app.Get("/analytics", guard, h.AnalyticsPage)
	app.Get("/editor", guard, h.EditorPage)
	app.Get("/api/user/subdomain", guard, h.GetSubdomain)
	app.Put("/api/user/subdomain", guard, h.UpdateSubdomain)
	app.Get("/wizard", guard, h.WizardState)
	app.Post("/wizard/resume", guard, h.WizardUpload)
	app.Post("/wizard/next", guard, h.WizardNext)
	app.Post("/wizard/template", guard, h.WizardTemplate)
	app.Post("/wizard/generate", guard, h.WizardGenerate)
	app.Get("/portfolio/export", guard, h.ExportPDF)
	app.Post("/api/analytics/track", guard, h.TrackAnalytics)
	app.Post("/api/ai/regenerate", guard, h.Regenerate)
}

// TenantGate serves the public portfolio when the hostname carries a tenant
// slug. Only reads are served on tenant hosts.
func (h *Handler) TenantGate(c *fiber.Ctx) error {
	slug := TenantSlug(c)
	if slug == "" {
		return c.Next()
	}
	if c.Method() != fiber.MethodGet {
		return c.SendStatus(fiber.StatusNotFound)
	}

	html, err := h.site.RenderHTML(c.UserContext(), slug)
	if err != nil {
		var re *domain.RequestError
		if errors.As(err, &re) && re.StatusCode == fiber.StatusNotFound {
			return c.Status(fiber.StatusNotFound).SendString("This portfolio does not exist.")
		}
		slog.Error("public portfolio render failed", "slug", slug, "error", err)
		return c.Status(fiber.StatusBadGateway).SendString("This portfolio is unavailable right now.")
	}

	// Page-view tracking is best-effort; a failure never blocks the view.
	ev := domain.AnalyticsEvent{ID: uuid.New(), Slug: slug, Kind: "page_view", Path: c.Path(), CreatedAt: time.Now()}
	if err := h.api.TrackAnalytics(c.UserContext(), ev); err != nil {
		slog.Warn("page view tracking failed", "slug", slug, "error", err)
	}

	c.Type("html")
	return c.SendString(html)
}

// availableTemplates is the catalogue the template-selection step offers.
var availableTemplates = []domain.Template{
	{ID: "modern", Name: "Modern"},
	{ID: "minimal", Name: "Minimal"},
	{ID: "creative", Name: "Creative"},
}

// Landing bootstraps the main application shell.
func (h *Handler) Landing(c *fiber.Ctx) error {
	identity, ok := h.sessions.Identity()
	body := fiber.Map{"authenticated": ok, "templates": availableTemplates}
	if ok {
		body["identity"] = identity
	}
	return c.JSON(body)
}

// Templates lists the visual templates the wizard can generate into.
func (h *Handler) Templates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": availableTemplates})
}

// Session reports the current authentication state for the UI shell.
func (h *Handler) Session(c *fiber.Ctx) error {
	identity, ok := h.sessions.Identity()
	if !ok {
		return c.JSON(fiber.Map{"authenticated": false})
	}
	return c.JSON(fiber.Map{"authenticated": true, "identity": identity})
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var form forms.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return badPayload(c)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return formErrors(c, errs)
	}

	msg, err := h.api.Register(c.UserContext(), form.Name, form.Email, form.Password)
	if err != nil {
		return notifyError(c, err)
	}
	return notifySuccess(c, msg)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return badPayload(c)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return formErrors(c, errs)
	}

	tok, err := h.api.Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		return notifyError(c, err)
	}
	if err := h.sessions.Login(c.UserContext(), tok); err != nil {
		slog.Error("login produced an unusable session", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(domain.Notification{
			Kind:    domain.NotifyError,
			Message: "The server issued an invalid session. Please try again.",
		})
	}

	identity, _ := h.sessions.Identity()
	return c.JSON(fiber.Map{"kind": domain.NotifySuccess, "message": "Logged in.", "identity": identity})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext()); err != nil {
		return notifyError(c, err)
	}
	// The session store holds one token slot, so logout ends the only
	// session this gateway serves and every wizard belongs to it.
	h.mu.Lock()
	h.wizards = map[string]*usecase.Wizard{}
	h.mu.Unlock()
	return notifySuccess(c, "Logged out.")
}

func (h *Handler) Verify(c *fiber.Ctx) error {
	var payload struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return badPayload(c)
	}
	if payload.Email == "" || payload.Code == "" {
		return formErrors(c, forms.FormErrors{"code": "Email and verification code are required."})
	}

	msg, err := h.api.VerifyEmail(c.UserContext(), payload.Email, payload.Code)
	if err != nil {
		return notifyError(c, err)
	}
	return notifySuccess(c, msg)
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var payload struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return badPayload(c)
	}
	if !forms.ValidEmail(payload.Email) {
		return formErrors(c, forms.FormErrors{"email": "Enter a valid email address."})
	}

	msg, err := h.api.ForgotPassword(c.UserContext(), payload.Email)
	if err != nil {
		return notifyError(c, err)
	}
	return notifySuccess(c, msg)
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var form forms.ResetPasswordForm
	if err := c.BodyParser(&form); err != nil {
		return badPayload(c)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return formErrors(c, errs)
	}

	msg, err := h.api.ResetPassword(c.UserContext(), form.Token, form.Password)
	if err != nil {
		return notifyError(c, err)
	}
	return notifySuccess(c, msg)
}

// PortfolioPage bootstraps the authenticated portfolio view.
func (h *Handler) PortfolioPage(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	slug, err := h.api.GetSubdomain(c.UserContext())
	if err != nil {
		slog.Warn("subdomain lookup failed", "error", err)
		slug = identity.Subdomain
	}
	return c.JSON(fiber.Map{"identity": identity, "subdomain": slug})
}

// AnalyticsPage bootstraps the authenticated analytics view.
func (h *Handler) AnalyticsPage(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	return c.JSON(fiber.Map{"identity": identity})
}

// EditorPage bootstraps the external drag-and-drop editor with its license.
func (h *Handler) EditorPage(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	return c.JSON(fiber.Map{"identity": identity, "editorLicenseKey": h.editorKey})
}

func (h *Handler) GetSubdomain(c *fiber.Ctx) error {
	slug, err := h.api.GetSubdomain(c.UserContext())
	if err != nil {
		return notifyError(c, err)
	}
	return c.JSON(fiber.Map{"subdomain": slug})
}

func (h *Handler) UpdateSubdomain(c *fiber.Ctx) error {
	var form forms.SubdomainForm
	if err := c.BodyParser(&form); err != nil {
		return badPayload(c)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return formErrors(c, errs)
	}

	slug, err := h.api.UpdateSubdomain(c.UserContext(), form.Subdomain)
	if err != nil {
		return notifyError(c, err)
	}
	return c.JSON(fiber.Map{"kind": domain.NotifySuccess, "message": "Subdomain updated.", "subdomain": slug})
}

// wizardFor returns the caller's wizard, creating one on first use. The
// instance is dropped once generation succeeds or the user logs out.
func (h *Handler) wizardFor(userID string) *usecase.Wizard {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.wizards[userID]
	if !ok {
		w = usecase.NewWizard(h.api, h.validate)
		h.wizards[userID] = w
	}
	return w
}

func (h *Handler) dropWizard(userID string) {
	h.mu.Lock()
	delete(h.wizards, userID)
	h.mu.Unlock()
}

func (h *Handler) WizardState(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	w := h.wizardFor(identity.UserID)
	return c.JSON(fiber.Map{
		"state":      w.State(),
		"hasFile":    w.HasFile(),
		"templateId": w.TemplateID(),
	})
}

func (h *Handler) WizardUpload(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	w := h.wizardFor(identity.UserID)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return formErrors(c, forms.FormErrors{"resume": "Please choose a resume file."})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return formErrors(c, forms.FormErrors{"resume": "The chosen file could not be read."})
	}
	defer f.Close()

	data := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		return formErrors(c, forms.FormErrors{"resume": "The chosen file could not be read."})
	}

	if err := w.AttachResume(fileHeader.Filename, data); err != nil {
		return notifyError(c, err)
	}
	return c.JSON(fiber.Map{"state": w.State(), "hasFile": true})
}

func (h *Handler) WizardNext(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	w := h.wizardFor(identity.UserID)
	if err := w.Next(); err != nil {
		return notifyError(c, err)
	}
	return c.JSON(fiber.Map{"state": w.State()})
}

func (h *Handler) WizardTemplate(c *fiber.Ctx) error {
	var payload struct {
		TemplateID string `json:"templateId"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return badPayload(c)
	}

	identity, _ := h.sessions.Identity()
	w := h.wizardFor(identity.UserID)
	if err := w.SelectTemplate(payload.TemplateID); err != nil {
		return notifyError(c, err)
	}
	return c.JSON(fiber.Map{"state": w.State(), "templateId": payload.TemplateID})
}

// WizardGenerate issues the single generation request. On success the result
// travels to the editor screen and the wizard instance is discarded.
func (h *Handler) WizardGenerate(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	w := h.wizardFor(identity.UserID)

	result, err := w.Generate(c.UserContext())
	if err != nil {
		return notifyError(c, err)
	}

	h.dropWizard(identity.UserID)
	return c.JSON(fiber.Map{
		"kind":       domain.NotifySuccess,
		"message":    "Portfolio generated.",
		"profile":    result.Profile,
		"templateId": result.TemplateID,
	})
}

// ExportPDF renders the caller's published portfolio as a PDF.
func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	identity, _ := h.sessions.Identity()
	slug := identity.Subdomain
	if slug == "" {
		s, err := h.api.GetSubdomain(c.UserContext())
		if err != nil {
			return notifyError(c, err)
		}
		slug = s
	}
	if slug == "" {
		return notifyError(c, &domain.ValidationError{Message: "Publish your portfolio to a subdomain first."})
	}

	pdf, err := h.site.ExportPDF(c.UserContext(), slug)
	if err != nil {
		return notifyError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="portfolio.pdf"`)
	return c.Send(pdf)
}

// TrackAnalytics forwards a page event, best-effort.
func (h *Handler) TrackAnalytics(c *fiber.Ctx) error {
	var ev domain.AnalyticsEvent
	if err := c.BodyParser(&ev); err != nil {
		return badPayload(c)
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	if err := h.api.TrackAnalytics(c.UserContext(), ev); err != nil {
		slog.Warn("analytics event dropped", "kind", ev.Kind, "error", err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// Regenerate asks the AI service to rewrite one section for the editor.
func (h *Handler) Regenerate(c *fiber.Ctx) error {
	var payload struct {
		Section      string                 `json:"section"`
		Profile      map[string]interface{} `json:"profile"`
		Instructions string                 `json:"instructions"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return badPayload(c)
	}
	if payload.Section == "" {
		return formErrors(c, forms.FormErrors{"section": "Pick a section to regenerate."})
	}

	profile, err := h.api.RegenerateSection(c.UserContext(), payload.Section, payload.Profile, payload.Instructions)
	if err != nil {
		return notifyError(c, err)
	}
	if h.validate != nil {
		if err := h.validate(profile); err != nil {
			return notifyError(c, &domain.RequestError{Message: "The regenerated profile came back malformed. Please try again."})
		}
	}
	return c.JSON(fiber.Map{"kind": domain.NotifySuccess, "message": "Section regenerated.", "profile": profile})
}

func badPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(domain.Notification{
		Kind:    domain.NotifyError,
		Message: "Invalid payload.",
	})
}

func formErrors(c *fiber.Ctx, errs forms.FormErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"kind":    domain.NotifyError,
		"message": "Please fix the highlighted fields.",
		"errors":  errs,
	})
}

func notifySuccess(c *fiber.Ctx, msg string) error {
	return c.JSON(domain.Notification{Kind: domain.NotifySuccess, Message: msg})
}

// notifyError converts the error taxonomy into a notification payload with a
// status mirroring the failure. Auth rejections get an auth-specific message;
// the session is never cleared here.
func notifyError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body := fiber.Map{"kind": domain.NotifyError, "message": ve.Message}
		if ve.Field != "" {
			body["errors"] = forms.FormErrors{ve.Field: ve.Message}
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	var re *domain.RequestError
	if errors.As(err, &re) {
		status := re.StatusCode
		if status == 0 {
			status = fiber.StatusBadGateway
		}
		msg := re.Message
		if domain.IsAuthError(err) {
			msg = "You are not authorized. Please log in again."
		}
		if msg == "" {
			msg = "Something went wrong. Please try again."
		}
		return c.Status(status).JSON(domain.Notification{Kind: domain.NotifyError, Message: msg})
	}

	slog.Error("unexpected handler error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(domain.Notification{
		Kind:    domain.NotifyError,
		Message: "Something went wrong. Please try again.",
	})
}
