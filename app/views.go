package app

import (
	"fmt"

	"coordash/domain/report"
	"coordash/internal/config"
	"coordash/internal/errors"
)

// SelectorMode decides how a view turns its selector into rows
type SelectorMode string

const (
	// SelectorExact keeps rows whose selector field equals the chosen value
	SelectorExact SelectorMode = "exact"
	// SelectorSubstring keeps rows where a free-text query occurs in any selector field
	SelectorSubstring SelectorMode = "substring"
)

// Cell styles understood by the templates
const (
	StylePlain   = ""
	StyleBold    = "bold"
	StyleMuted   = "muted"
	StyleBadge   = "badge"
	StyleSuccess = "success"
	StyleCheck   = "check"
	StyleSmall   = "small"
)

// Column is one displayed table column
type Column struct {
	Title string `json:"title"`
	Align string `json:"align"`
}

// DisplayCell is one rendered value plus a style hint for the templates
type DisplayCell struct {
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

// Projector turns a normalized row into the cells of one table line
type Projector func(fields report.FieldKeyMap, row report.NormalizedRow) []DisplayCell

// ViewDefinition describes one report view: where its rows come from, how
// they are selected and how they are displayed.
type ViewDefinition struct {
	Name        string
	Title       string
	Label       string
	Description string
	Group       string
	Icon        string
	SourceURL   string

	// Path is the page route and Param the query parameter carrying the selector
	Path  string
	Param string

	Fields         report.FieldKeyMap
	Mode           SelectorMode
	SelectorFields []string
	OptionsField   string

	SelectorLabel string
	Placeholder   string
	CountLabel    string
	EmptyPrompt   string
	NoResults     string

	Columns []Column
	Project Projector
}

// Validate checks that every referenced logical field exists
func (d ViewDefinition) Validate() error {
	if d.Name == "" {
		return errors.ConfigInvalid("view without a name")
	}
	if d.Project == nil {
		return errors.ConfigInvalid(fmt.Sprintf("view %q has no projector", d.Name))
	}
	switch d.Mode {
	case SelectorExact:
		if len(d.SelectorFields) != 1 {
			return errors.ConfigInvalid(fmt.Sprintf("view %q: exact selection needs exactly one field", d.Name))
		}
	case SelectorSubstring:
		if len(d.SelectorFields) == 0 {
			return errors.ConfigInvalid(fmt.Sprintf("view %q: substring selection needs at least one field", d.Name))
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("view %q: unknown selector mode %q", d.Name, d.Mode))
	}

	referenced := append([]string{d.OptionsField}, d.SelectorFields...)
	for _, name := range referenced {
		if !d.Fields.Has(name) {
			return errors.ConfigInvalid(fmt.Sprintf("view %q references unknown field %q", d.Name, name))
		}
	}
	return nil
}

// Filter applies the view's selector to rows
func (d ViewDefinition) Filter(rows []report.NormalizedRow, selector string) []report.NormalizedRow {
	if d.Mode == SelectorExact {
		return report.FilterExact(rows, d.Fields.Key(d.SelectorFields[0]), selector)
	}
	keys := make([]string, 0, len(d.SelectorFields))
	for _, name := range d.SelectorFields {
		keys = append(keys, d.Fields.Key(name))
	}
	return report.FilterSubstring(rows, keys, selector)
}

// Options lists the distinct values offered in the selection control
func (d ViewDefinition) Options(rows []report.NormalizedRow) []string {
	return report.DistinctSorted(rows, d.Fields.Key(d.OptionsField))
}

// Built-in view names
const (
	ViewSolicitudes = "solicitudes"
	ViewJuicios     = "juicios"
)

var solicitudesFields = report.MustFieldKeyMap(map[string]string{
	"email":      "Correo del instructor",
	"marca":      "Marca temporal",
	"aprob":      "Fecha de aprobación",
	"nombreProg": "NOMBRE DEL PROGRAMA DE FORMACIÓN",
	"codigoProg": "CODIGO DE PROGRAMA",
	"ini":        "FECHA DE INICIO DE LA FORMACIÓN",
	"fin":        "FECHA DE FINALIZACIÓN DE LA FORMACIÓN",
	"ficha":      "Número de ficha",
	"codSol":     "Código de solicitud",
})

// SolicitudesView is the request history of one instructor, picked by email
func SolicitudesView(sourceURL string) ViewDefinition {
	return ViewDefinition{
		Name:        ViewSolicitudes,
		Title:       "Módulo de Consultas y Solicitudes",
		Label:       "Solicitudes Realizadas",
		Description: "Seleccione un instructor para visualizar su historial de solicitudes.",
		Group:       "consultas",
		Icon:        "bi-search",
		SourceURL:   sourceURL,
		Path:        "/consultas",
		Param:       "email",

		Fields:         solicitudesFields,
		Mode:           SelectorExact,
		SelectorFields: []string{"email"},
		OptionsField:   "email",

		SelectorLabel: "Instructor (Correo)",
		Placeholder:   "Seleccione correo",
		CountLabel:    "Solicitudes encontradas",
		EmptyPrompt:   "Seleccione un correo para ver los resultados.",
		NoResults:     "No se encontraron registros para este criterio.",

		Columns: []Column{
			{Title: "Solicitud", Align: "center"},
			{Title: "Aprobación", Align: "center"},
			{Title: "Programa de Formación", Align: "start"},
			{Title: "Código", Align: "center"},
			{Title: "Inicio", Align: "center"},
			{Title: "Fin", Align: "center"},
			{Title: "Ficha", Align: "center"},
		},
		Project: func(f report.FieldKeyMap, r report.NormalizedRow) []DisplayCell {
			return []DisplayCell{
				{Text: report.DateOnly(f.Value(r, "marca")), Style: StyleSmall},
				{Text: report.DateOnly(f.Value(r, "aprob")), Style: StyleBadge},
				{Text: report.LeftOfDoubleDash(f.Value(r, "nombreProg")), Style: StyleBold},
				{Text: f.Value(r, "codigoProg"), Style: StyleMuted},
				{Text: f.Value(r, "ini")},
				{Text: f.Value(r, "fin")},
				{Text: f.Value(r, "ficha"), Style: StyleSuccess},
			}
		},
	}
}

var juiciosFields = report.MustFieldKeyMap(map[string]string{
	"marca":        "Marca temporal",
	"correo":       "Dirección de correo electrónico",
	"nombre":       "Nombre Instructor",
	"ficha":        "Codigo Ficha",
	"gestionado":   "gestionado",
	"fechaGestion": "fecha gestion",
})

// JuiciosView is the searchable list of submitted evaluation reports
func JuiciosView(sourceURL string) ViewDefinition {
	return ViewDefinition{
		Name:        ViewJuicios,
		Title:       "Reporte envío de Juicios",
		Label:       "Juicios Enviados",
		Description: "Consulta el estado de gestión de juicios evaluativos.",
		Group:       "consultas",
		Icon:        "bi-person-check",
		SourceURL:   sourceURL,
		Path:        "/juicios",
		Param:       "q",

		Fields:         juiciosFields,
		Mode:           SelectorSubstring,
		SelectorFields: []string{"nombre", "correo", "ficha"},
		OptionsField:   "correo",

		SelectorLabel: "Filtrar información",
		Placeholder:   "Nombre, Correo o Ficha...",
		CountLabel:    "Resultados",
		EmptyPrompt:   "Ingrese un criterio de búsqueda para visualizar los datos.",
		NoResults:     "No se encontraron registros que coincidan con la búsqueda.",

		Columns: []Column{
			{Title: "Envío", Align: "start"},
			{Title: "Correo Electrónico", Align: "start"},
			{Title: "Instructor", Align: "start"},
			{Title: "Ficha", Align: "center"},
			{Title: "Gestionado", Align: "center"},
			{Title: "Fecha Gestión", Align: "center"},
		},
		Project: func(f report.FieldKeyMap, r report.NormalizedRow) []DisplayCell {
			gestion := f.Value(r, "gestionado")
			status := DisplayCell{Text: gestion, Style: StyleMuted}
			if report.IsYes(gestion) {
				status = DisplayCell{Text: "Gestionado", Style: StyleCheck}
			} else if gestion == "" {
				status.Text = "Pendiente"
			}
			return []DisplayCell{
				{Text: report.DateOnly(f.Value(r, "marca"))},
				{Text: f.Value(r, "correo"), Style: StyleSmall},
				{Text: f.Value(r, "nombre"), Style: StyleBold},
				{Text: f.Value(r, "ficha")},
				status,
				{Text: report.DateOnly(f.Value(r, "fechaGestion"))},
			}
		},
	}
}

// BuiltinViews returns the solicitudes and juicios views with any copy
// overrides from the dashboard file applied
func BuiltinViews(sheets config.SheetsConfig, overrides map[string]config.ViewOverride) []ViewDefinition {
	defs := []ViewDefinition{
		SolicitudesView(sheets.SolicitudesURL),
		JuiciosView(sheets.JuiciosURL),
	}
	for i := range defs {
		o, ok := overrides[defs[i].Name]
		if !ok {
			continue
		}
		if o.Title != "" {
			defs[i].Title = o.Title
		}
		if o.Label != "" {
			defs[i].Label = o.Label
		}
		if o.Description != "" {
			defs[i].Description = o.Description
		}
	}
	return defs
}
