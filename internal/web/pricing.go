package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erazemk/cruisedesk/internal/audit"
	"github.com/erazemk/cruisedesk/internal/feedback"
	"github.com/erazemk/cruisedesk/internal/forms"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/model"
)

type markupPage struct {
	PageData
	Form        model.MarkupRule
	BaseFare    string
	Result      *decimal.Decimal
	FieldErrors model.FieldErrors
}

type promotionPage struct {
	PageData
	Form        model.Promotion
	FieldErrors model.FieldErrors
}

// validated merges decoding errors with the record's own rules.
func validated(errs model.FieldErrors, err error) model.FieldErrors {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		errs.Merge(verr.Fields)
	}
	return errs
}

// MarkupPage handles GET /markup.
func (s *Server) MarkupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "markup.html", &markupPage{
		PageData: s.pageData(r, "Markup", "/markup", nil),
		Form:     model.NewMarkupRule(),
	})
}

// MarkupSubmit handles POST /markup. Markup rules are create-only.
func (s *Server) MarkupSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	c := &feedback.Collector{}
	rule, errs := forms.MarkupRule(r.PostForm)
	render := func(status int, errs model.FieldErrors) {
		s.Templates.RenderStatus(w, status, "markup.html", &markupPage{
			PageData:    s.pageData(r, "Markup", "/markup", c),
			Form:        rule,
			BaseFare:    r.PostFormValue("baseFare"),
			FieldErrors: errs,
		})
	}

	if errs = validated(errs, rule.Validate()); len(errs) > 0 {
		render(http.StatusUnprocessableEntity, errs)
		return
	}

	created, err := s.Client.CreateMarkup(r.Context(), rule)
	if err != nil {
		slog.Error("failed to create markup", "error", err)
		feedback.Error(c, "Error saving markup: "+gateway.Message(err))
		render(http.StatusOK, nil)
		return
	}

	slog.Info("markup created", "user", GetUser(r.Context()).Email, "markup", created.ID)
	s.recordChange(r, audit.ActionCreate, "markup", strconv.FormatInt(created.ID, 10))
	feedback.Success(c, "Markup added successfully")
	s.redirect(w, r, "/markup", c)
}

// MarkupCalculate handles POST /markup/calculate. It previews the markup a
// rule yields on a base fare without saving the rule.
func (s *Server) MarkupCalculate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	c := &feedback.Collector{}
	quote, errs := forms.MarkupQuote(r.PostForm)
	page := &markupPage{
		Form:     quote.Rule,
		BaseFare: r.PostFormValue("baseFare"),
	}
	status := http.StatusOK

	if errs = validated(errs, quote.Rule.Validate()); len(errs) > 0 {
		page.FieldErrors = errs
		status = http.StatusUnprocessableEntity
	} else if amount, err := s.Client.CalculateMarkup(r.Context(), quote); err != nil {
		slog.Error("failed to calculate markup", "error", err)
		feedback.Error(c, "Error calculating markup: "+gateway.Message(err))
	} else {
		page.Result = &amount
	}

	page.PageData = s.pageData(r, "Markup", "/markup", c)
	s.Templates.RenderStatus(w, status, "markup.html", page)
}

// PromotionsPage handles GET /promotions.
func (s *Server) PromotionsPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "promotions.html", &promotionPage{
		PageData: s.pageData(r, "Promotions", "/promotions", nil),
		Form:     model.NewPromotion(),
	})
}

// PromotionSubmit handles POST /promotions. Promotions are create-only.
func (s *Server) PromotionSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	c := &feedback.Collector{}
	promo, errs := forms.Promotion(r.PostForm)
	render := func(status int, errs model.FieldErrors) {
		s.Templates.RenderStatus(w, status, "promotions.html", &promotionPage{
			PageData:    s.pageData(r, "Promotions", "/promotions", c),
			Form:        promo,
			FieldErrors: errs,
		})
	}

	if errs = validated(errs, promo.Validate()); len(errs) > 0 {
		render(http.StatusUnprocessableEntity, errs)
		return
	}

	created, err := s.Client.CreatePromotion(r.Context(), promo)
	if err != nil {
		slog.Error("failed to create promotion", "error", err)
		feedback.Error(c, "Error saving promotion: "+gateway.Message(err))
		render(http.StatusOK, nil)
		return
	}

	slog.Info("promotion created", "user", GetUser(r.Context()).Email, "promotion", created.Name)
	s.recordChange(r, audit.ActionCreate, "promotion", strconv.FormatInt(created.ID, 10))
	feedback.Success(c, "Promotion added successfully")
	s.redirect(w, r, "/promotions", c)
}
