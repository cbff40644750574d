package http

import (
	"github.com/gofiber/fiber/v2"

	"city-weather/internal/models"
)

const dateLayout = "02.01.2006"

// handleIndex godoc
// @Summary Weather search page
// @Description Renders the search form with placeholder values. No counters are changed.
// @Tags Weather
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (r *routes) handleIndex(c *fiber.Ctx) error {
	return r.render(c, r.service.Placeholder())
}

// handleSearch godoc
// @Summary Search current weather
// @Description Looks up the current weather for a city and renders it. Provider failures are shown on the page, the status stays 200.
// @Tags Weather
// @Accept x-www-form-urlencoded
// @Produce html
// @Param city formData string false "City name" example(London)
// @Param units formData string false "Unit system" Enums(metric, imperial) default(metric)
// @Success 200 {string} string "HTML page"
// @Router / [post]
func (r *routes) handleSearch(c *fiber.Ctx) error {
	query := models.NewWeatherQuery(c.FormValue("city"), c.FormValue("units"))

	record := r.service.Search(c.Context(), query)

	return r.render(c, record)
}

func (r *routes) render(c *fiber.Ctx, record models.DisplayRecord) error {
	err := c.Render("index", fiber.Map{
		"weather": record,
		"date":    r.now().Format(dateLayout),
	})
	if err != nil {
		r.l.Error(err, map[string]any{"template": "index"})
	}
	return err
}
