package ui

import (
	"html/template"
	"net/http"

	"coordash/app"
	"coordash/internal/config"
	"coordash/internal/errors"

	"github.com/gin-gonic/gin"
)

type navItem struct {
	Path   string
	Label  string
	Icon   string
	Active bool
}

type navGroup struct {
	Title string
	Items []navItem
}

// page is the data every template shares through the layout
type page struct {
	Title       string
	Brand       string
	Coordinator config.Person
	Nav         []navGroup
}

type indexPage struct {
	page
	Heading string
	Welcome template.HTML
}

type reportPage struct {
	page
	Def  app.ViewDefinition
	View *app.ViewResult
}

type formPage struct {
	page
	Form config.Form
	Copy template.HTML
}

type errorPage struct {
	page
	Status  int
	Message string
}

func (s *Server) newPage(title, active string) page {
	groups := []navGroup{
		{Title: "CONSULTAS Y REPORTES"},
		{Title: "REGISTRO DE INFORMACIÓN"},
	}
	for _, def := range s.service.Views() {
		item := navItem{Path: def.Path, Label: def.Label, Icon: def.Icon, Active: def.Path == active}
		if def.Group == GroupRegistro {
			groups[1].Items = append(groups[1].Items, item)
		} else {
			groups[0].Items = append(groups[0].Items, item)
		}
	}
	for _, form := range s.dashboard.Forms {
		path := "/" + form.Name
		groups[1].Items = append(groups[1].Items, navItem{
			Path:   path,
			Label:  form.Label,
			Icon:   form.Icon,
			Active: path == active,
		})
	}
	return page{
		Title:       title,
		Brand:       s.dashboard.Brand,
		Coordinator: s.dashboard.Coordinator,
		Nav:         groups,
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", indexPage{
		page:    s.newPage("Inicio", "/"),
		Heading: s.dashboard.Welcome.Title,
		Welcome: s.welcome,
	})
}

// handleView renders a report view. The selector comes from the view's
// query parameter; refresh=1 forces a new fetch.
func (s *Server) handleView(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		def, ok := s.service.View(name)
		if !ok {
			s.renderError(c, errors.NotFound("view "+name))
			return
		}

		selector := c.Query(def.Param)
		var (
			result *app.ViewResult
			err    error
		)
		if c.Query("refresh") != "" {
			result, err = s.service.Refresh(c.Request.Context(), name, selector)
		} else {
			result, err = s.service.Query(c.Request.Context(), name, selector)
		}
		if err != nil {
			s.renderError(c, err)
			return
		}

		s.renderTemplate(c, http.StatusOK, "report.html", reportPage{
			page: s.newPage(def.Title, def.Path),
			Def:  def,
			View: result,
		})
	}
}

func (s *Server) handleForm(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, ok := s.dashboard.Form(name)
		if !ok {
			s.renderError(c, errors.NotFound("form "+name))
			return
		}
		if form.Mode == config.FormModeEmbed {
			s.renderForm(c, "form_embed.html", form)
			return
		}
		s.renderForm(c, "form_redirect.html", form)
	}
}

func (s *Server) handleFormEmbed(c *gin.Context) {
	form, ok := s.dashboard.Form(c.Param("name"))
	if !ok {
		s.renderError(c, errors.NotFound("form "+c.Param("name")))
		return
	}
	s.renderForm(c, "form_embed.html", form)
}

func (s *Server) renderForm(c *gin.Context, templateName string, form config.Form) {
	copyHTML := s.redirect
	if form.Description != "" {
		copyHTML = renderMarkdown(form.Description)
	}
	s.renderTemplate(c, http.StatusOK, templateName, formPage{
		page: s.newPage(form.Title, "/"+form.Name),
		Form: form,
		Copy: copyHTML,
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	s.renderError(c, errors.NotFound("page "+c.Request.URL.Path))
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := httpStatus(err)
	message := "Página no encontrada"
	if status != http.StatusNotFound {
		s.logger.Error("[Server] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = errors.UserMessage(err)
	}
	s.renderTemplate(c, status, "error.html", errorPage{
		page:    s.newPage(message, ""),
		Status:  status,
		Message: message,
	})
}
