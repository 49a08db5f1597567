package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/practiva/ledger/internal/http/auth"
	"github.com/practiva/ledger/internal/http/export"
	"github.com/practiva/ledger/internal/http/ledger"
	"github.com/practiva/ledger/internal/http/shift"
	"github.com/practiva/ledger/internal/http/wallet"
)

func New(
	authSecret string,
	transactionsV1 *ledger.Handler,
	walletsV1 *wallet.Handler,
	shiftsV1 *shift.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(authSecret))

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.InvoiceRoutes(r)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			walletsV1.Routes(r)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			shiftsV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
