package ui

import (
	"net/http"

	"coordash/app"
	"coordash/domain/report"
	"coordash/internal/errors"
)

// viewSummary is one entry of GET /api/views
type viewSummary struct {
	Name             string           `json:"name"`
	Title            string           `json:"title"`
	Label            string           `json:"label"`
	Path             string           `json:"path"`
	Param            string           `json:"param"`
	Mode             app.SelectorMode `json:"mode"`
	Phase            report.Phase     `json:"phase"`
	SourceConfigured bool             `json:"source_configured"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func viewSummaries(service *app.ReportService) []viewSummary {
	status := service.Status()
	views := service.Views()
	out := make([]viewSummary, 0, len(views))
	for _, def := range views {
		out = append(out, viewSummary{
			Name:             def.Name,
			Title:            def.Title,
			Label:            def.Label,
			Path:             def.Path,
			Param:            def.Param,
			Mode:             def.Mode,
			Phase:            status[def.Name],
			SourceConfigured: def.SourceURL != "",
		})
	}
	return out
}

func newErrorBody(err error) errorBody {
	return errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)}
}

// httpStatus maps an error code onto the response status
func httpStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
