package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", handler.Login)
		r.Get("/invoices/{id}", handler.GetInvoice)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireSession)

			r.Post("/logout", handler.Logout)

			r.Post("/products/import", handler.ImportProducts)
			r.Get("/products", handler.ListProducts)
			r.Post("/products", handler.CreateProduct)
			r.Put("/products/{code}", handler.UpdateProduct)
			r.Delete("/products/{code}", handler.DeleteProduct)
			r.Post("/products/{code}/suggest", handler.SuggestProduct)

			r.Get("/cart", handler.GetCart)
			r.Delete("/cart", handler.ClearCart)
			r.Post("/cart/items", handler.AddCartItem)
			r.Patch("/cart/items/{code}", handler.AdjustCartItem)
			r.Patch("/cart/items/{code}/notes", handler.SetCartNotes)
			r.Delete("/cart/items/{code}", handler.RemoveCartItem)

			r.Get("/buyers", handler.ListBuyers)
			r.Post("/orders/export", handler.ExportOrder)

			r.Get("/actions", handler.ListActions)
		})
	})

	return r
}
