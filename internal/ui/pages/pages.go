// Package pages renders full HTML pages from embedded templates.
// Each page is parsed together with layout.html and exposed as a templ.Component.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = map[string]*template.Template{}

func init() {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" {
			continue
		}
		pageTemplates[name] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name),
		)
	}
}

// view is what every template sees: request scoped values plus the page's own data.
type view struct {
	Title     string
	Nonce     string
	CSRFToken string
	Path      string
	User      *model.User
	Profile   *model.Profile
	Config    *config.Config
	Data      any
}

func page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tmpl, ok := pageTemplates[name]
		if !ok {
			return fmt.Errorf("unknown page template %q", name)
		}
		return tmpl.Execute(w, view{
			Title:     title,
			Nonce:     templ.GetNonce(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Path:      ctxkeys.URLPath(ctx),
			User:      ctxkeys.User(ctx),
			Profile:   ctxkeys.Profile(ctx),
			Config:    ctxkeys.Config(ctx),
			Data:      data,
		})
	})
}

func Home() templ.Component {
	return page("home.html", "Track your training", nil)
}

func NotFound() templ.Component {
	return page("not_found.html", "Not found", nil)
}

// Auth is the sign-in page; errMsg is shown above the form when set.
func Auth(errMsg string) templ.Component {
	return page("auth.html", "Sign in", errMsg)
}

func AuthPassword(errMsg string) templ.Component {
	return page("auth_password.html", "Sign in with password", errMsg)
}

func MagicLinkSent(email string) templ.Component {
	return page("magic_link_sent.html", "Check your email", email)
}

func ForgotPassword(errMsg string) templ.Component {
	return page("forgot_password.html", "Forgot password", errMsg)
}

func Onboarding(errMsg string) templ.Component {
	return page("onboarding.html", "Welcome", errMsg)
}

type DashboardData struct {
	Date     time.Time
	Today    time.Time
	Workouts []*model.WorkoutSummary
	Stats    model.WorkoutStats
}

func (d DashboardData) IsToday() bool {
	return d.Date.Equal(d.Today)
}

func Dashboard(data DashboardData) templ.Component {
	return page("dashboard.html", "Dashboard", data)
}

type WorkoutFormData struct {
	Input     validation.CreateWorkoutInput
	Exercises []*model.Exercise
	Error     string
}

func WorkoutForm(data WorkoutFormData) templ.Component {
	return page("workout_form.html", "New workout", data)
}

type WorkoutDetailData struct {
	Detail *model.WorkoutDetail
	Error  string
}

func WorkoutDetail(data WorkoutDetailData) templ.Component {
	return page("workout_detail.html", data.Detail.Workout.Title, data)
}

type SettingsData struct {
	Email        string
	PendingEmail string
	HasPassword  bool
	Error        string
	Notice       string
}

func Settings(data SettingsData) templ.Component {
	return page("settings.html", "Settings", data)
}
