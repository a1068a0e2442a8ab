package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/order-service/internal/domain/models"
)

// базовый набор данных. id заданы явно, поэтому повторный запуск не создает
// дубликатов заказов и товаров, у которых нет естественного уникального ключа.
var (
	SeedUsers = []models.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
		{ID: 2, Name: "Bob", Email: "bob@example.com"},
	}
	SeedProducts = []models.Product{
		{ID: 1, Name: "Produto A", Price: 10.50},
		{ID: 2, Name: "Produto B", Price: 25.00},
		{ID: 3, Name: "Produto C", Price: 7.25},
	}
	SeedOrders = []models.Order{
		{ID: 1, UserID: 1},
		{ID: 2, UserID: 2},
	}
	SeedOrderLines = []models.OrderLine{
		{OrderID: 1, ProductID: 1, Quantity: 2},
		{OrderID: 1, ProductID: 2, Quantity: 1},
		{OrderID: 2, ProductID: 3, Quantity: 5},
	}
)

// после вставки с явными id сдвигаем sequence, иначе следующий INSERT через API получит занятый id
var sequenceTables = []string{"usuarios", "produtos", "pedidos"}

// sequenceResetQuery двигает sequence только вперед: до MAX(id), но не ниже уже выданного значения.
// pg_sequence_last_value возвращает NULL, пока sequence не использовалась; GREATEST пропускает NULL.
// Если таблица пуста и sequence не трогали, строк нет и setval не вызывается.
const sequenceResetQuery = `
	SELECT setval(s.seq, GREATEST(s.max_id, s.last_id))
	FROM (
		SELECT pg_get_serial_sequence('%[1]s', 'id') AS seq,
			(SELECT MAX(id) FROM %[1]s) AS max_id,
			pg_sequence_last_value(pg_get_serial_sequence('%[1]s', 'id')::regclass) AS last_id
	) s
	WHERE GREATEST(s.max_id, s.last_id) IS NOT NULL`

// Seed загружает базовые данные в одной транзакции. Конфликтующие строки пропускаются,
// так что вызов безопасно повторять.
func Seed(ctx context.Context, db *sql.DB) error {
	const op = "storage.Seed"

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(query string, args ...any) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	for _, u := range SeedUsers {
		if err := exec("INSERT INTO usuarios (id, nome, email) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
			u.ID, u.Name, u.Email); err != nil {
			return err
		}
	}
	for _, p := range SeedProducts {
		if err := exec("INSERT INTO produtos (id, nome, preco) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
			p.ID, p.Name, p.Price); err != nil {
			return err
		}
	}
	for _, o := range SeedOrders {
		if err := exec("INSERT INTO pedidos (id, usuario_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			o.ID, o.UserID); err != nil {
			return err
		}
	}
	for _, l := range SeedOrderLines {
		if err := exec("INSERT INTO pedido_produto (pedido_id, produto_id, quantidade) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
			l.OrderID, l.ProductID, l.Quantity); err != nil {
			return err
		}
	}

	for _, table := range sequenceTables {
		if err := exec(fmt.Sprintf(sequenceResetQuery, table)); err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}
