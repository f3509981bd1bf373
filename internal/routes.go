package internal

import (
	"net/http"

	"jumptimer/internal/controllers"
	"jumptimer/internal/providers"
)

func InitRoutes(timer *controllers.TimerController, templates *controllers.TemplateController, records *controllers.RecordController, puzzles *controllers.PuzzleController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/timer", http.HandlerFunc(timer.GetState))
	routers.Post("/timer/puzzle", http.HandlerFunc(timer.SelectPuzzle))
	routers.Post("/timer/template", http.HandlerFunc(timer.SelectTemplate))
	routers.Post("/timer/start", http.HandlerFunc(timer.Start))
	routers.Post("/timer/skip", http.HandlerFunc(timer.Skip))
	routers.Post("/timer/split", http.HandlerFunc(timer.Split))
	routers.Post("/timer/stop", http.HandlerFunc(timer.Stop))
	routers.Post("/timer/reset", http.HandlerFunc(timer.Reset))
	routers.Post("/timer/save", http.HandlerFunc(timer.Save))

	routers.Get("/templates", http.HandlerFunc(templates.List))
	routers.Post("/templates/create", http.HandlerFunc(templates.Create))
	routers.Post("/templates/update", http.HandlerFunc(templates.Update))
	routers.Post("/templates/duplicate", http.HandlerFunc(templates.Duplicate))
	routers.Post("/templates/delete", http.HandlerFunc(templates.Delete))
	routers.Post("/templates/from-record", http.HandlerFunc(templates.FromRecord))

	routers.Get("/records", http.HandlerFunc(records.List))
	routers.Get("/records/best", http.HandlerFunc(records.Best))
	routers.Post("/records/delete", http.HandlerFunc(records.Delete))

	routers.Get("/puzzles", http.HandlerFunc(puzzles.List))
	routers.Post("/puzzles/create", http.HandlerFunc(puzzles.Create))
	routers.Post("/puzzles/update", http.HandlerFunc(puzzles.Update))
	routers.Post("/puzzles/delete", http.HandlerFunc(puzzles.Delete))
	return routers
}
