package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresOrderRepository implements domain.OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *sqlx.DB
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

type postgresOrder struct {
	ID                   string     `db:"id"`
	UserID               string     `db:"user_id"`
	TotalAmount          int64      `db:"total_amount"`
	Currency             string     `db:"currency"`
	ShippingAddress      string     `db:"shipping_address"`
	Status               string     `db:"status"`
	PaymentTransactionID *string    `db:"payment_transaction_id"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
	Version              int        `db:"version"`
}

type postgresOrderItem struct {
	OrderID     string `db:"order_id"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Quantity    int64  `db:"quantity"`
	UnitPrice   int64  `db:"unit_price"`
	Currency    string `db:"currency"`
}

// Create stores the order and its items in a single transaction, so the order
// is never visible without its items.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (
			id, user_id, total_amount, currency, shipping_address, status,
			payment_transaction_id, created_at, updated_at, version
		) VALUES (
			:id, :user_id, :total_amount, :currency, :shipping_address, :status,
			:payment_transaction_id, :created_at, :updated_at, :version
		)`

	if _, err := tx.NamedExecContext(ctx, orderQuery, r.toPostgres(order)); err != nil {
		return errors.Wrap(err, "failed to insert order")
	}

	itemQuery := `
		INSERT INTO order_items (
			order_id, product_id, product_name, quantity, unit_price, currency
		) VALUES (
			:order_id, :product_id, :product_name, :quantity, :unit_price, :currency
		)`

	items := make([]postgresOrderItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = postgresOrderItem{
			OrderID:     order.ID.String(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount,
			Currency:    item.UnitPrice.Currency,
		}
	}

	if _, err := tx.NamedExecContext(ctx, itemQuery, items); err != nil {
		return errors.Wrap(err, "failed to insert order items")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit order")
	}

	return nil
}

// FindByID finds an order with its items
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id models.ID) (*domain.Order, error) {
	query := `
		SELECT id, user_id, total_amount, currency, shipping_address, status,
			   payment_transaction_id, created_at, updated_at, version
		FROM orders
		WHERE id = $1`

	var pgOrder postgresOrder
	err := r.db.GetContext(ctx, &pgOrder, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find order")
	}

	items, err := r.loadItems(ctx, pgOrder.ID)
	if err != nil {
		return nil, err
	}

	return r.toDomain(&pgOrder, items)
}

// FindByUserID finds a user's orders, newest first
func (r *PostgresOrderRepository) FindByUserID(ctx context.Context, userID models.ID) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, total_amount, currency, shipping_address, status,
			   payment_transaction_id, created_at, updated_at, version
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var pgOrders []postgresOrder
	if err := r.db.SelectContext(ctx, &pgOrders, query, userID.String()); err != nil {
		return nil, errors.Wrap(err, "failed to find orders by user ID")
	}

	return r.hydrate(ctx, pgOrders)
}

// List returns a page of orders, newest first, with the total count
func (r *PostgresOrderRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders`); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count orders")
	}

	query := `
		SELECT id, user_id, total_amount, currency, shipping_address, status,
			   payment_transaction_id, created_at, updated_at, version
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var pgOrders []postgresOrder
	if err := r.db.SelectContext(ctx, &pgOrders, query, pageSize, (page-1)*pageSize); err != nil {
		return nil, 0, errors.Wrap(err, "failed to list orders")
	}

	orders, err := r.hydrate(ctx, pgOrders)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus performs a compare-and-set on the order status. The WHERE
// clause carries the precondition: when the current status no longer matches,
// zero rows change and the caller learns its trigger lost.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id models.ID, from, to domain.OrderStatus, transactionID *string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1,
			payment_transaction_id = COALESCE($2, payment_transaction_id),
			updated_at = $3,
			version = version + 1
		WHERE id = $4 AND status = $5`

	res, err := r.db.ExecContext(ctx, query, string(to), transactionID, time.Now(), id.String(), string(from))
	if err != nil {
		return false, errors.Wrap(err, "failed to update order status")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read rows affected")
	}

	return affected > 0, nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderID string) ([]postgresOrderItem, error) {
	query := `
		SELECT order_id, product_id, product_name, quantity, unit_price, currency
		FROM order_items
		WHERE order_id = $1`

	var items []postgresOrderItem
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, errors.Wrap(err, "failed to load order items")
	}

	return items, nil
}

func (r *PostgresOrderRepository) hydrate(ctx context.Context, pgOrders []postgresOrder) ([]*domain.Order, error) {
	orders := make([]*domain.Order, len(pgOrders))
	for i := range pgOrders {
		items, err := r.loadItems(ctx, pgOrders[i].ID)
		if err != nil {
			return nil, err
		}

		order, err := r.toDomain(&pgOrders[i], items)
		if err != nil {
			return nil, err
		}
		orders[i] = order
	}

	return orders, nil
}

func (r *PostgresOrderRepository) toPostgres(order *domain.Order) *postgresOrder {
	return &postgresOrder{
		ID:                   order.ID.String(),
		UserID:               order.UserID.String(),
		TotalAmount:          order.TotalAmount.Amount,
		Currency:             order.TotalAmount.Currency,
		ShippingAddress:      order.ShippingAddress,
		Status:               string(order.Status),
		PaymentTransactionID: order.PaymentTransactionID,
		CreatedAt:            order.Timestamps.CreatedAt,
		UpdatedAt:            order.Timestamps.UpdatedAt,
		Version:              order.Version.Value,
	}
}

func (r *PostgresOrderRepository) toDomain(pgOrder *postgresOrder, pgItems []postgresOrderItem) (*domain.Order, error) {
	id, err := models.NewID(pgOrder.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	userID, err := models.NewID(pgOrder.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid user ID")
	}

	items := make([]domain.OrderItem, len(pgItems))
	for i, item := range pgItems {
		items[i] = domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   models.NewMoney(item.UnitPrice, item.Currency),
		}
	}

	return &domain.Order{
		ID:                   id,
		UserID:               userID,
		Items:                items,
		TotalAmount:          models.NewMoney(pgOrder.TotalAmount, pgOrder.Currency),
		ShippingAddress:      pgOrder.ShippingAddress,
		Status:               domain.OrderStatus(pgOrder.Status),
		PaymentTransactionID: pgOrder.PaymentTransactionID,
		Timestamps: models.Timestamps{
			CreatedAt: pgOrder.CreatedAt,
			UpdatedAt: pgOrder.UpdatedAt,
		},
		Version: models.Version{Value: pgOrder.Version},
	}, nil
}
