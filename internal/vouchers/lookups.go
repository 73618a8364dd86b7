package vouchers

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/masterdata/customers"
	"github.com/stu-kho/kho-console/internal/masterdata/products"
	"github.com/stu-kho/kho-console/internal/masterdata/suppliers"
	"github.com/stu-kho/kho-console/internal/masterdata/warehouses"
	"github.com/stu-kho/kho-console/internal/users"
)

// Partner names the counterpart list a voucher form needs.
type Partner int

const (
	NoPartner Partner = iota
	SupplierPartner
	CustomerPartner
)

// Lookups are the option lists of a voucher form. Failed names the lists
// that could not be loaded; they are left empty.
type Lookups struct {
	Warehouses []warehouses.Warehouse `json:"warehouses"`
	Products   []products.Product     `json:"products"`
	Suppliers  []suppliers.Supplier   `json:"suppliers,omitempty"`
	Customers  []customers.Customer   `json:"customers,omitempty"`
	Users      []users.User           `json:"users"`
	Failed     []string               `json:"failed,omitempty"`
}

// LookupLoader fetches the option lists concurrently.
type LookupLoader struct {
	warehouses *backend.Resource[warehouses.Warehouse]
	products   *backend.Resource[products.Product]
	suppliers  *backend.Resource[suppliers.Supplier]
	customers  *backend.Resource[customers.Customer]
	users      *backend.Resource[users.User]
	logger     *slog.Logger
}

// NewLookupLoader constructs a LookupLoader.
func NewLookupLoader(client *backend.Client, logger *slog.Logger) *LookupLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &LookupLoader{
		warehouses: backend.NewResource[warehouses.Warehouse](client, warehouses.BasePath),
		products:   backend.NewResource[products.Product](client, products.BasePath),
		suppliers:  backend.NewResource[suppliers.Supplier](client, suppliers.BasePath),
		customers:  backend.NewResource[customers.Customer](client, customers.BasePath),
		users:      backend.NewResource[users.User](client, users.BasePath),
		logger:     logger,
	}
}

// Load fetches every list the form of partner needs. A failing list does
// not cancel the others.
func (l *LookupLoader) Load(ctx context.Context, partner Partner) Lookups {
	var (
		out    Lookups
		mu     sync.Mutex
		failed []string
		g      errgroup.Group
	)
	// All-settled: a fetch records its failure and returns nil, so no list
	// cancels the others and Wait never reports an error.
	settle := func(name string, fetch func() error) {
		g.Go(func() error {
			if err := fetch(); err != nil {
				l.logger.WarnContext(ctx, "voucher lookup failed", slog.String("list", name), slog.Any("error", err))
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
			return nil
		})
	}
	settle("warehouses", func() (err error) {
		out.Warehouses, err = l.warehouses.List(ctx)
		return err
	})
	settle("products", func() (err error) {
		out.Products, err = l.products.List(ctx)
		return err
	})
	settle("users", func() (err error) {
		out.Users, err = l.users.List(ctx)
		return err
	})
	switch partner {
	case SupplierPartner:
		settle("suppliers", func() (err error) {
			out.Suppliers, err = l.suppliers.List(ctx)
			return err
		})
	case CustomerPartner:
		settle("customers", func() (err error) {
			out.Customers, err = l.customers.List(ctx)
			return err
		})
	}
	_ = g.Wait()

	sort.Strings(failed)
	out.Failed = failed
	if out.Warehouses == nil {
		out.Warehouses = []warehouses.Warehouse{}
	}
	if out.Products == nil {
		out.Products = []products.Product{}
	}
	if out.Users == nil {
		out.Users = []users.User{}
	}
	return out
}
