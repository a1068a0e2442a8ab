package models

// Product представляет товар (таблица produtos)
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"nome"`
	Price float64 `json:"preco"` // цена за единицу, NUMERIC в БД
}
