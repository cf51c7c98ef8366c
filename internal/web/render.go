package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Form holds the submitted values echoed back into the form.
type Form struct {
	City      string
	EventName string
	Date      string
}

// Page is the data for one dashboard render.
type Page struct {
	Form         Form
	Loading      bool
	Error        string
	Assessment   *AssessmentView
	Stars        []Particle
	GlobalAlerts bool
	Today        string
	Toasts       []Toast
}

// Renderer executes the dashboard template.
type Renderer struct {
	tmpl      *template.Template
	starCount int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRenderer parses the embedded templates.
func NewRenderer(starCount int, seed uint64) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		tmpl:      tmpl,
		starCount: starCount,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// NewPage assembles page data. latest may be nil.
func (r *Renderer) NewPage(form Form, loading bool, latest *domain.Assessment, errMsg string, globalAlerts bool) Page {
	r.mu.Lock()
	stars := NewStarField(r.starCount, r.rng)
	r.mu.Unlock()

	p := Page{
		Form:         form,
		Loading:      loading,
		Error:        errMsg,
		Stars:        stars,
		GlobalAlerts: globalAlerts,
		Today:        domain.Now().Format(domain.DateLayout),
	}
	if latest != nil {
		v := NewAssessmentView(*latest)
		p.Assessment = &v
	}
	return p
}

// Render writes the dashboard. Output is buffered so a template error
// never produces a partial page.
func (r *Renderer) Render(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "dashboard.html", p); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// DefaultSeed derives a render seed from the wall clock.
func DefaultSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
