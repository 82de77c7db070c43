package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// state contiene todas las tablas en memoria. Run trabaja sobre una copia y la publica
// solo si la función termina sin error.
type state struct {
	products       map[string]entity.Product
	movements      []entity.InventoryMovement
	sales          map[string]entity.Sale
	purchaseOrders map[string]entity.PurchaseOrder
	customers      map[string]entity.Customer
	suppliers      map[string]entity.Supplier
	activity       []entity.ActivityLog
}

func newState() *state {
	return &state{
		products:       map[string]entity.Product{},
		sales:          map[string]entity.Sale{},
		purchaseOrders: map[string]entity.PurchaseOrder{},
		customers:      map[string]entity.Customer{},
		suppliers:      map[string]entity.Supplier{},
	}
}

func (s *state) clone() *state {
	out := &state{
		products:       make(map[string]entity.Product, len(s.products)),
		movements:      slices.Clone(s.movements),
		sales:          make(map[string]entity.Sale, len(s.sales)),
		purchaseOrders: make(map[string]entity.PurchaseOrder, len(s.purchaseOrders)),
		customers:      make(map[string]entity.Customer, len(s.customers)),
		suppliers:      make(map[string]entity.Supplier, len(s.suppliers)),
		activity:       slices.Clone(s.activity),
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.sales {
		out.sales[k] = cloneSale(v)
	}
	for k, v := range s.purchaseOrders {
		out.purchaseOrders[k] = clonePurchaseOrder(v)
	}
	for k, v := range s.customers {
		out.customers[k] = v
	}
	for k, v := range s.suppliers {
		out.suppliers[k] = v
	}
	return out
}

func cloneSale(src entity.Sale) entity.Sale {
	dst := src
	dst.Items = slices.Clone(src.Items)
	return dst
}

func clonePurchaseOrder(src entity.PurchaseOrder) entity.PurchaseOrder {
	dst := src
	dst.Items = slices.Clone(src.Items)
	dst.Timeline = slices.Clone(src.Timeline)
	return dst
}

// view entrega el estado sobre el que opera un repositorio y la función que lo libera.
type view func() (*state, func())

// Store es el almacenamiento transaccional en memoria (modo desarrollo y tests).
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado. Si fn devuelve error la copia se
// descarta (rollback); si no, reemplaza al estado publicado (commit). Las transacciones se serializan.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	inTx := func() (*state, func()) { return work, func() {} }
	if err := fn(reposFor(inTx)); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) locked() (*state, func()) {
	s.mu.Lock()
	return s.st, s.mu.Unlock
}

func reposFor(v view) repository.TxRepositories {
	return repository.TxRepositories{
		Products:       &productRepo{view: v},
		Movements:      &movementRepo{view: v},
		Sales:          &saleRepo{view: v},
		PurchaseOrders: &purchaseOrderRepo{view: v},
		Customers:      &customerRepo{view: v},
		Suppliers:      &supplierRepo{view: v},
	}
}

// Repositorios fuera de transacción. No deben usarse dentro de Run.

func (s *Store) Products() repository.ProductRepository { return &productRepo{view: s.locked} }

func (s *Store) Movements() repository.InventoryMovementRepository {
	return &movementRepo{view: s.locked}
}

func (s *Store) Sales() repository.SaleRepository { return &saleRepo{view: s.locked} }

func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository {
	return &purchaseOrderRepo{view: s.locked}
}

func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{view: s.locked} }

func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{view: s.locked} }

func (s *Store) ActivityLogs() repository.ActivityLogRepository {
	return &activityLogRepo{view: s.locked}
}

// Ping existe para igualar la interfaz de salud del pool de Postgres.
func (s *Store) Ping(context.Context) error { return nil }
