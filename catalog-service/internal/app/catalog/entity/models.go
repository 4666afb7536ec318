package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category представляет категорию товаров
// Внутри продукта хранится денормализованная копия, не ссылка:
// изменение категории не затрагивает продукты, в которые она уже встроена
type Category struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Nombre string             `json:"nombre" bson:"nombre"`
}

// Product представляет товар каталога
// Имена полей на проводе (JSON и BSON) испанские, как в исходном API
type Product struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Nombre    string             `json:"nombre" bson:"nombre"`
	Precio    float64            `json:"precio" bson:"precio"`
	CreateAt  time.Time          `json:"createAt" bson:"createAt"`           // Устанавливается один раз при создании
	Foto      string             `json:"foto,omitempty" bson:"foto,omitempty"` // Имя файла вида {uuid}-{имя без пробелов, двоеточий и обратных слешей}
	Categoria *Category          `json:"categoria,omitempty" bson:"categoria,omitempty"`
}

// ProductEvent представляет событие изменения продукта для Kafka
type ProductEvent struct {
	EventType string    `json:"event_type"` // PRODUCT_CREATED, PRODUCT_UPDATED, PRODUCT_DELETED
	ProductID string    `json:"product_id"`
	Nombre    string    `json:"nombre"`
	Precio    float64   `json:"precio"`
	Timestamp time.Time `json:"timestamp"`
}
