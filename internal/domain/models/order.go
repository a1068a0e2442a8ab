package models

import "time"

// Order представляет заказ пользователя (таблица pedidos).
// Сумма заказа не хранится, она вычисляется по строкам заказа.
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"usuario_id"`
	CreatedAt time.Time `json:"data"` // колонка pedidos.data, заполняется БД (DEFAULT NOW()) при вставке
}

// OrderLine связывает заказ с товаром (таблица pedido_produto), ключ (order_id, product_id)
type OrderLine struct {
	OrderID   int64 `json:"pedido_id"`
	ProductID int64 `json:"produto_id"`
	Quantity  int   `json:"quantidade"`
}
