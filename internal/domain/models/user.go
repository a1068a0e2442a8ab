package models

// User представляет пользователя (таблица usuarios)
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"` // уникален в пределах таблицы
}
