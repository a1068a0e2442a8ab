package models

// OrdersPerUser строка отчета "заказы по пользователю"
type OrdersPerUser struct {
	UserName    string `json:"usuario"`
	OrdersCount int64  `json:"total_pedidos"`
}

// OrderSpend строка отчета "сумма по заказу"
type OrderSpend struct {
	OrderID    int64   `json:"pedido_id"`
	TotalSpent float64 `json:"total_gasto"`
}
