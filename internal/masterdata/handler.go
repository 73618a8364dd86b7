// Package masterdata serves the master data lists: products, categories,
// warehouses, suppliers and customers.
package masterdata

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/masterdata/categories"
	"github.com/stu-kho/kho-console/internal/masterdata/customers"
	"github.com/stu-kho/kho-console/internal/masterdata/products"
	"github.com/stu-kho/kho-console/internal/masterdata/suppliers"
	"github.com/stu-kho/kho-console/internal/masterdata/warehouses"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// Options configure the master data lists.
type Options struct {
	PageSize int
	Idle     time.Duration
}

// Handler groups the master data list handlers.
type Handler struct {
	guard      *rbac.Guard
	products   *products.Handler
	categories *categories.Handler
	warehouses *warehouses.Handler
	suppliers  *suppliers.Handler
	customers  *customers.Handler
}

// NewHandler wires every master data list to the backend client.
func NewHandler(logger *slog.Logger, client *backend.Client, auditor listing.Auditor, guard *rbac.Guard, opts Options) *Handler {
	whRepo := warehouses.NewRepository(client)
	return &Handler{
		guard:      guard,
		products:   products.NewHandler(logger, products.NewConfig(products.NewRepository(client), auditor, opts.PageSize), opts.Idle),
		categories: categories.NewHandler(logger, categories.NewConfig(categories.NewRepository(client), auditor, opts.PageSize), opts.Idle),
		warehouses: warehouses.NewHandler(logger, warehouses.NewConfig(whRepo, auditor, opts.PageSize), whRepo, opts.Idle),
		suppliers:  suppliers.NewHandler(logger, suppliers.NewConfig(suppliers.NewRepository(client), auditor, opts.PageSize), opts.Idle),
		customers:  customers.NewHandler(logger, customers.NewConfig(customers.NewRepository(client), auditor, opts.PageSize), opts.Idle),
	}
}

// MountRoutes registers the lists under their view permissions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Use(h.guard.Require(rbac.Products.View))
		h.products.MountRoutes(r)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Use(h.guard.Require(rbac.Categories.View))
		h.categories.MountRoutes(r)
	})
	r.Route("/warehouses", func(r chi.Router) {
		r.Use(h.guard.Require(rbac.Warehouses.View))
		h.warehouses.MountRoutes(r)
	})
	r.Route("/suppliers", func(r chi.Router) {
		r.Use(h.guard.Require(rbac.Suppliers.View))
		h.suppliers.MountRoutes(r)
	})
	r.Route("/customers", func(r chi.Router) {
		r.Use(h.guard.Require(rbac.Customers.View))
		h.customers.MountRoutes(r)
	})
}

// Forget drops every list controller of a session.
func (h *Handler) Forget(sessionID string) {
	h.products.Forget(sessionID)
	h.categories.Forget(sessionID)
	h.warehouses.Forget(sessionID)
	h.suppliers.Forget(sessionID)
	h.customers.Forget(sessionID)
}
