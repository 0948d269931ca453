package orderrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/pg"
)

const uniqueViolation = "23505"

// ErrOrderNumberTaken means the generated order number collided with an
// existing one; creation should be retried with a fresh number.
var ErrOrderNumberTaken = errors.New("order number already taken")

const orderColumns = `id, user_id, order_number, status, payment_status, shipping_status,
		currency, subtotal, tax, shipping, discount, total, refund_amount, refund_reason,
		tracking_number, notes, created_at, updated_at, version`

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.UserID, &order.OrderNumber,
		&order.Status, &order.PaymentStatus, &order.ShippingStatus,
		&order.Currency, &order.Subtotal, &order.Tax, &order.Shipping,
		&order.Discount, &order.Total, &order.RefundAmount, &order.RefundReason,
		&order.TrackingNumber, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt, &order.Version,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Save inserts the order with its line items and seed history record in a
// single transaction.
func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO orders (user_id, order_number, status, payment_status, shipping_status,
				currency, subtotal, tax, shipping, discount, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at, version
		`
		err := r.db.QueryRow(ctx, query,
			order.UserID, order.OrderNumber, order.Status, order.PaymentStatus, order.ShippingStatus,
			order.Currency, order.Subtotal, order.Tax, order.Shipping, order.Discount, order.Total,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.Version)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrOrderNumberTaken
			}
			zap.L().Error("can't save order", zap.Error(err))
			return err
		}

		if err := r.insertItems(ctx, order); err != nil {
			return err
		}
		return r.insertNewHistory(ctx, order)
	})
}

func (r *Repository) insertItems(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := r.db.QueryRow(ctx, query,
			order.ID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			zap.L().Error("can't save order item", zap.Error(err))
			return err
		}
	}
	return nil
}

func (r *Repository) insertNewHistory(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO order_history (order_id, from_status, to_status, actor, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	for i := range order.History {
		record := &order.History[i]
		if record.ID != 0 {
			continue
		}
		record.OrderID = order.ID
		err := r.db.QueryRow(ctx, query,
			order.ID, record.FromStatus, record.ToStatus, record.Actor, record.Note,
		).Scan(&record.ID, &record.CreatedAt)
		if err != nil {
			zap.L().Error("can't save order history", zap.Error(err))
			return err
		}
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}

	if order.Items, err = r.findItems(ctx, order.ID); err != nil {
		return nil, err
	}
	if order.History, err = r.findHistory(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) findItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("can't get order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity)
		if err != nil {
			zap.L().Error("can't scan order item row", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) findHistory(ctx context.Context, orderID int) ([]domain.OrderHistory, error) {
	query := `
		SELECT id, order_id, from_status, to_status, actor, note, created_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("can't get order history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var history []domain.OrderHistory
	for rows.Next() {
		var record domain.OrderHistory
		err := rows.Scan(&record.ID, &record.OrderID, &record.FromStatus, &record.ToStatus, &record.Actor, &record.Note, &record.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan order history row", zap.Error(err))
			return nil, err
		}
		history = append(history, record)
	}
	return history, rows.Err()
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.UserID, &order.OrderNumber,
			&order.Status, &order.PaymentStatus, &order.ShippingStatus,
			&order.Currency, &order.Subtotal, &order.Tax, &order.Shipping,
			&order.Discount, &order.Total, &order.RefundAmount, &order.RefundReason,
			&order.TrackingNumber, &order.Notes,
			&order.CreatedAt, &order.UpdatedAt, &order.Version,
		)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Update rewrites the order row under the optimistic version check, replaces
// the line item set, and appends any history records added by the service.
// All of it commits or none of it does.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		query := `
			UPDATE orders
			SET status = $1, payment_status = $2, shipping_status = $3,
				subtotal = $4, tax = $5, shipping = $6, discount = $7, total = $8,
				refund_amount = $9, refund_reason = $10, tracking_number = $11, notes = $12,
				updated_at = NOW(), version = version + 1
			WHERE id = $13 AND version = $14
			RETURNING updated_at, version
		`
		err := r.db.QueryRow(ctx, query,
			order.Status, order.PaymentStatus, order.ShippingStatus,
			order.Subtotal, order.Tax, order.Shipping, order.Discount, order.Total,
			order.RefundAmount, order.RefundReason, order.TrackingNumber, order.Notes,
			order.ID, order.Version,
		).Scan(&order.UpdatedAt, &order.Version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrVersionConflict
			}
			zap.L().Error("can't update order", zap.Error(err))
			return err
		}

		if _, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
			zap.L().Error("can't clear order items", zap.Error(err))
			return err
		}
		if err := r.insertItems(ctx, order); err != nil {
			return err
		}
		return r.insertNewHistory(ctx, order)
	})
}
