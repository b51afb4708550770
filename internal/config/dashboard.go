package config

import (
	"fmt"
	"os"

	"coordash/internal/errors"

	"gopkg.in/yaml.v3"
)

// Form display modes
const (
	FormModeRedirect = "redirect"
	FormModeEmbed    = "embed"
)

// Dashboard holds the page copy and navigation of the web UI
type Dashboard struct {
	Brand       string                  `yaml:"brand"`
	Coordinator Person                  `yaml:"coordinator"`
	Welcome     Welcome                 `yaml:"welcome"`
	Redirect    string                  `yaml:"redirect_markdown"`
	Views       map[string]ViewOverride `yaml:"views"`
	Forms       []Form                  `yaml:"forms"`
}

// Person is shown in the sidebar footer
type Person struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Welcome is the home page copy
type Welcome struct {
	Title    string `yaml:"title"`
	Markdown string `yaml:"markdown"`
}

// ViewOverride replaces the title or description of a report view
type ViewOverride struct {
	Title       string `yaml:"title"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// Form is an external registration form linked from the sidebar
type Form struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Title       string `yaml:"title"`
	URL         string `yaml:"url"`
	Mode        string `yaml:"mode"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

const defaultRedirectMarkdown = "Este formulario requiere **subida de archivos**. " +
	"Por seguridad, Google requiere que se complete en su plataforma oficial."

// DefaultDashboard returns the built-in page copy and the two forms
func DefaultDashboard(forms FormsConfig) *Dashboard {
	return &Dashboard{
		Brand: "COORDINACIÓN ACADÉMICA COMPLEMENTARIA",
		Coordinator: Person{
			Name: "Javier Díaz Díaz",
			Role: "Coordinador Académico",
		},
		Welcome: Welcome{
			Title:    "Bienvenido, Colaborador",
			Markdown: "Seleccione una herramienta en el menú de la izquierda para comenzar.",
		},
		Redirect: defaultRedirectMarkdown,
		Views: map[string]ViewOverride{
			"solicitudes": {Label: "Solicitudes Realizadas"},
			"juicios":     {Label: "Juicios Enviados"},
		},
		Forms: []Form{
			{
				Name:  "fichas",
				Label: "Registro de Fichas",
				Title: "Solicitud de fichas",
				URL:   forms.FichasURL,
				Mode:  FormModeRedirect,
				Icon:  "bi-file-earmark-plus",
			},
			{
				Name:  "envio",
				Label: "Envio de Juicios",
				Title: "Envío de Juicios",
				URL:   forms.EnvioURL,
				Mode:  FormModeRedirect,
				Icon:  "bi-pencil-square",
			},
		},
	}
}

// LoadDashboard reads path over the defaults. An empty path or a missing
// file yields the defaults.
func LoadDashboard(path string, forms FormsConfig) (*Dashboard, error) {
	dash := DefaultDashboard(forms)
	if path == "" {
		return dash, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dash, nil
		}
		return nil, errors.Wrap(err, fmt.Sprintf("failed to read dashboard file %s", path))
	}

	var file Dashboard
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to parse dashboard file %s: %w", path, err))
	}
	dash.merge(&file)

	if err := dash.Validate(); err != nil {
		return nil, err
	}
	return dash, nil
}

func (d *Dashboard) merge(file *Dashboard) {
	if file.Brand != "" {
		d.Brand = file.Brand
	}
	if file.Coordinator.Name != "" {
		d.Coordinator = file.Coordinator
	}
	if file.Welcome.Title != "" {
		d.Welcome.Title = file.Welcome.Title
	}
	if file.Welcome.Markdown != "" {
		d.Welcome.Markdown = file.Welcome.Markdown
	}
	if file.Redirect != "" {
		d.Redirect = file.Redirect
	}
	for name, override := range file.Views {
		current := d.Views[name]
		if override.Title != "" {
			current.Title = override.Title
		}
		if override.Label != "" {
			current.Label = override.Label
		}
		if override.Description != "" {
			current.Description = override.Description
		}
		d.Views[name] = current
	}

	// forms in the file replace the built-in entry with the same name
	for _, form := range file.Forms {
		if i := d.formIndex(form.Name); i >= 0 {
			base := d.Forms[i]
			if form.Label != "" {
				base.Label = form.Label
			}
			if form.Title != "" {
				base.Title = form.Title
			}
			if form.URL != "" {
				base.URL = form.URL
			}
			if form.Mode != "" {
				base.Mode = form.Mode
			}
			if form.Icon != "" {
				base.Icon = form.Icon
			}
			if form.Description != "" {
				base.Description = form.Description
			}
			d.Forms[i] = base
			continue
		}
		if form.Mode == "" {
			form.Mode = FormModeRedirect
		}
		if form.Icon == "" {
			form.Icon = "bi-box-arrow-up-right"
		}
		d.Forms = append(d.Forms, form)
	}
}

// Validate checks form names, modes and links
func (d *Dashboard) Validate() error {
	seen := make(map[string]bool, len(d.Forms))
	for _, form := range d.Forms {
		if form.Name == "" {
			return errors.ConfigInvalid("dashboard form without a name")
		}
		if seen[form.Name] {
			return errors.ConfigInvalid(fmt.Sprintf("dashboard form %q defined twice", form.Name))
		}
		seen[form.Name] = true
		if form.URL == "" {
			return errors.ConfigInvalid(fmt.Sprintf("dashboard form %q has no url", form.Name))
		}
		if form.Mode != FormModeRedirect && form.Mode != FormModeEmbed {
			return errors.ConfigInvalid(fmt.Sprintf("dashboard form %q has unknown mode %q", form.Name, form.Mode))
		}
	}
	return nil
}

// Form finds a form by name
func (d *Dashboard) Form(name string) (Form, bool) {
	if i := d.formIndex(name); i >= 0 {
		return d.Forms[i], true
	}
	return Form{}, false
}

func (d *Dashboard) formIndex(name string) int {
	for i, form := range d.Forms {
		if form.Name == name {
			return i
		}
	}
	return -1
}
