package httpserver

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"city-weather/web"
)

// NewViews returns the html engine over the embedded templates.
func NewViews() *html.Engine {
	return html.NewFileSystem(web.Templates(), ".html")
}

func InitFiberServer(appName string, views fiber.Views, middleware ...fiber.Handler) *fiber.App {
	s := fiber.New(fiber.Config{
		AppName:     appName,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		Views:       views,
	})

	s.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	for _, m := range middleware {
		s.Use(m)
	}
	s.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/manage/health",
		ReadinessEndpoint: "/manage/ready",
	}))

	return s
}
