package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/house-price-estimator/internal/catalog"
	"github.com/octobees/house-price-estimator/internal/dto"
	"github.com/octobees/house-price-estimator/internal/estimator"
	"github.com/octobees/house-price-estimator/internal/logger"
	middleware "github.com/octobees/house-price-estimator/internal/middleware"
	"github.com/octobees/house-price-estimator/internal/render"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const msgBusy = "A prediction is already in progress."

// EstimatorHandler serves the estimation form and its JSON API. Each request
// runs against the orchestrator the Session middleware attached.
type EstimatorHandler struct {
	availability catalog.Availability
	formatter    *render.Formatter
	logger       *zap.Logger
	page         *template.Template
}

// NewEstimatorHandler constructs the handler.
func NewEstimatorHandler(availability catalog.Availability, formatter *render.Formatter, l *zap.Logger) *EstimatorHandler {
	return &EstimatorHandler{
		availability: availability,
		formatter:    formatter,
		logger:       logger.OrNop(l),
		page:         pageTemplate,
	}
}

type pageData struct {
	Locations []catalog.Location
	Selected  string
	Sqft      string
	BHK       string
	Bath      string
	Status    estimator.Status
	View      render.View
}

// Page handles GET / and renders an empty form.
func (h *EstimatorHandler) Page(c echo.Context) error {
	orch, err := h.orchestrator(c)
	if err != nil {
		return err
	}
	return h.renderPage(c, http.StatusOK, pageData{Status: orch.Status()})
}

// SubmitForm handles POST /predict from the HTML form. The result replaces
// whatever the page showed before.
func (h *EstimatorHandler) SubmitForm(c echo.Context) error {
	orch, err := h.orchestrator(c)
	if err != nil {
		return err
	}

	data := pageData{
		Selected: c.FormValue("location"),
		Sqft:     c.FormValue("total_sqft"),
		BHK:      c.FormValue("bhk"),
		Bath:     c.FormValue("bath"),
	}
	in := estimator.ParseForm(data.Sqft, data.BHK, data.Bath, data.Selected)

	est, err := orch.Submit(c.Request().Context(), in)
	data.View = h.formatter.Outcome(est, err)
	data.Status = orch.Status()

	status := http.StatusOK
	switch {
	case errors.Is(err, estimator.ErrCatalogUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, estimator.ErrBusy):
		status = http.StatusConflict
	}
	return h.renderPage(c, status, data)
}

// Locations handles GET /api/locations.
func (h *EstimatorHandler) Locations(c echo.Context) error {
	if !h.availability.Ready() {
		return Error(c, http.StatusServiceUnavailable, h.availability.Hint())
	}
	cat := h.availability.Catalog()
	return Success(c, http.StatusOK, "locations loaded", dto.LocationsData{
		Count:     cat.Len(),
		Hint:      h.availability.Hint(),
		Locations: cat.Entries(),
	})
}

// Predict handles POST /api/predict.
func (h *EstimatorHandler) Predict(c echo.Context) error {
	orch, err := h.orchestrator(c)
	if err != nil {
		return err
	}

	var req dto.PredictInput
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	est, err := orch.Submit(c.Request().Context(), estimator.FormInput{
		Sqft:        req.TotalSqft,
		BHK:         req.BHK,
		Bath:        req.Bath,
		LocationKey: req.Location,
	})
	if err == nil {
		view := h.formatter.Success(est.Price)
		return Success(c, http.StatusOK, view.Headline, dto.PredictionData{
			EstimatedPrice: est.Price,
			Formatted:      view.Value,
			Disclaimer:     view.Note,
		})
	}

	switch {
	case errors.Is(err, estimator.ErrCatalogUnavailable):
		return Error(c, http.StatusServiceUnavailable, h.availability.Hint())
	case errors.Is(err, estimator.ErrBusy):
		return Error(c, http.StatusConflict, msgBusy)
	}

	se, ok := estimator.AsSubmitError(err)
	if !ok {
		h.logger.Error("unexpected prediction error", zap.Error(err))
		return Error(c, http.StatusInternalServerError, "prediction failed")
	}
	view := render.Failure(se.Message)
	if se.Kind == estimator.SubmitValidation {
		return FieldError(c, http.StatusUnprocessableEntity, se.Field, view.Message)
	}
	return Error(c, http.StatusBadGateway, view.Message)
}

// Status handles GET /api/status for the caller's session.
func (h *EstimatorHandler) Status(c echo.Context) error {
	orch, err := h.orchestrator(c)
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, "", orch.Status())
}

func (h *EstimatorHandler) orchestrator(c echo.Context) (*estimator.Orchestrator, error) {
	orch := middleware.OrchestratorFromContext(c)
	if orch == nil {
		h.logger.Error("no orchestrator attached to request", zap.String("path", c.Path()))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return orch, nil
}

func (h *EstimatorHandler) renderPage(c echo.Context, status int, data pageData) error {
	data.Locations = h.availability.Catalog().Entries()
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render page")
	}
	return c.HTMLBlob(status, buf.Bytes())
}
