package entity

import "time"

// Category категория товара в представлении клиентского сервиса
type Category struct {
	ID     string `json:"id,omitempty"`
	Nombre string `json:"nombre"`
}

// Product товар каталога в представлении клиентского сервиса
// Идентификаторы приходят от Catalog Service в hex-формате
type Product struct {
	ID        string    `json:"id,omitempty"`
	Nombre    string    `json:"nombre"`
	Precio    float64   `json:"precio"`
	CreateAt  time.Time `json:"createAt"`
	Foto      string    `json:"foto,omitempty"`
	Categoria *Category `json:"categoria,omitempty"`
}
