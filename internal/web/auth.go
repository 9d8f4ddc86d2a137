package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/forms"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/session"
)

type loginPage struct {
	PageData
	Next     string
	UserName string
}

type registrationPage struct {
	PageData
	Form        model.Registration
	FieldErrors model.FieldErrors
	Roles       []model.Role
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if session.New(s.Client).Check(r.Context()) != nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &loginPage{
		PageData: s.pageData(r, "Sign in", "/login", nil),
		Next:     next,
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	c := &feedback.Collector{}
	creds := forms.Credentials(r.PostForm)
	next := safeNext(r.PostFormValue("next"))

	fail := func(msg string) {
		feedback.Error(c, msg)
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", &loginPage{
			PageData: s.pageData(r, "Sign in", "/login", c),
			Next:     next,
			UserName: creds.UserName,
		})
	}

	if creds.UserName == "" || creds.Password == "" {
		fail("Enter your user name and password.")
		return
	}

	user, err := session.New(s.Client).Login(r.Context(), creds)
	if err != nil {
		slog.Warn("login failed", "user", creds.UserName, "error", err)
		if errors.Is(err, session.ErrLoginFailed) || gateway.IsUnauthorized(err) {
			fail("Invalid user name or password.")
			return
		}
		fail(gateway.Message(err))
		return
	}

	slog.Info("user signed in", "user", user.Email, "role", user.Role)
	feedback.Success(c, "Welcome back, "+displayName(user)+".")
	s.redirect(w, r, next, c)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.New(s.Client).Logout(r.Context()); err != nil {
		slog.Warn("backend logout failed", "error", err)
	}
	s.flash(r, feedback.Toast{Level: feedback.LevelInfo, Message: "You have been signed out."})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RegistrationPage handles GET /registration.
func (s *Server) RegistrationPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "registration.html", &registrationPage{
		PageData: s.pageData(r, "Create an account", "/registration", nil),
		Form:     model.Registration{Role: model.RoleAgent},
		Roles:    model.Roles,
	})
}

// RegistrationSubmit handles POST /registration.
func (s *Server) RegistrationSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	c := &feedback.Collector{}
	reg := forms.Registration(r.PostForm)

	render := func(status int, errs model.FieldErrors) {
		reg.Password = ""
		s.Templates.RenderStatus(w, status, "registration.html", &registrationPage{
			PageData:    s.pageData(r, "Create an account", "/registration", c),
			Form:        reg,
			FieldErrors: errs,
			Roles:       model.Roles,
		})
	}

	if err := reg.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			render(http.StatusUnprocessableEntity, verr.Fields)
			return
		}
	}

	if err := s.Client.Register(r.Context(), reg); err != nil {
		slog.Error("registration failed", "email", reg.Email, "error", err)
		feedback.Error(c, "Registration failed: "+gateway.Message(err))
		render(http.StatusOK, nil)
		return
	}

	slog.Info("user registered", "email", reg.Email, "role", reg.Role)
	feedback.Success(c, "Account created. Sign in to continue.")
	s.redirect(w, r, "/login", c)
}

func displayName(u *model.AuthUser) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
