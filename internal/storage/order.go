package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/order-service/internal/domain/models"
)

// ReportStorage описывает агрегирующие запросы по заказам.
type ReportStorage interface {
	// OrdersPerUser считает заказы каждого пользователя, включая пользователей без заказов.
	OrdersPerUser(ctx context.Context) ([]models.OrdersPerUser, error)
	// SpendPerOrder считает сумму каждого заказа, у которого есть хотя бы одна строка.
	SpendPerOrder(ctx context.Context) ([]models.OrderSpend, error)
}

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) ReportStorage {
	return &reportRepository{db: db}
}

func (r *reportRepository) OrdersPerUser(ctx context.Context) ([]models.OrdersPerUser, error) {
	query := `
		SELECT u.nome, COUNT(p.id) AS total_pedidos
		FROM usuarios u
		LEFT JOIN pedidos p ON u.id = p.usuario_id
		GROUP BY u.id, u.nome
		ORDER BY total_pedidos DESC, u.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders per user: %w", err)
	}
	defer rows.Close()

	report := make([]models.OrdersPerUser, 0)
	for rows.Next() {
		var row models.OrdersPerUser
		if err := rows.Scan(&row.UserName, &row.OrdersCount); err != nil {
			return nil, fmt.Errorf("failed to scan orders per user: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// SpendPerOrder: сумма = Σ(quantidade × preco), заказы без строк не попадают в отчет
func (r *reportRepository) SpendPerOrder(ctx context.Context) ([]models.OrderSpend, error) {
	query := `
		SELECT p.id AS pedido_id, SUM(pp.quantidade * pr.preco) AS total_gasto
		FROM pedidos p
		INNER JOIN pedido_produto pp ON p.id = pp.pedido_id
		INNER JOIN produtos pr ON pp.produto_id = pr.id
		GROUP BY p.id
		ORDER BY total_gasto DESC, p.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query spend per order: %w", err)
	}
	defer rows.Close()

	report := make([]models.OrderSpend, 0)
	for rows.Next() {
		var row models.OrderSpend
		if err := rows.Scan(&row.OrderID, &row.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan spend per order: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return report, nil
}
