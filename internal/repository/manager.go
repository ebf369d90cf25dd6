// Package repository holds the persistence layer: one typed repository
// per entity, plus a manager that owns the shared database handle and
// the transactional unit of work.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// Manager wires every entity repository to one bun handle. All writes
// that span more than one table go through RunInTx.
type Manager struct {
	db          *bun.DB
	users       *Users
	clients     *Clients
	categories  *Categories
	products    *Products
	rackets     *Rackets
	maintenance *Maintenance
}

func NewManager(db *bun.DB) *Manager {
	return &Manager{
		db:          db,
		users:       NewUsersRepository(db),
		clients:     NewClientsRepository(db),
		categories:  NewCategoriesRepository(db),
		products:    NewProductsRepository(db),
		rackets:     NewRacketsRepository(db),
		maintenance: NewMaintenanceRepository(db),
	}
}

func (m *Manager) Validate() error {
	if m.db == nil {
		return errors.New("repository manager needs a database handle")
	}

	if m.users == nil || m.clients == nil || m.categories == nil ||
		m.products == nil || m.rackets == nil || m.maintenance == nil {
		return errors.New("all repositories should be initialized")
	}

	return nil
}

// RunInTx executes fn inside a single transaction, honoring an already
// cancelled context before touching the database.
func (m *Manager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, fn)
	}
}

func (m *Manager) DB() *bun.DB { return m.db }

func (m *Manager) Users() *Users { return m.users }

func (m *Manager) Clients() *Clients { return m.clients }

func (m *Manager) Categories() *Categories { return m.categories }

func (m *Manager) Products() *Products { return m.products }

func (m *Manager) Rackets() *Rackets { return m.rackets }

func (m *Manager) Maintenance() *Maintenance { return m.maintenance }
