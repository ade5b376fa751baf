package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category представляет узел дерева категорий.
// Дерево хранится плоско: parent_id ссылается на ту же таблицу,
// детей выводим обратным поиском по parent_id, без обратных указателей.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	ParentID  *int64    `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Product представляет карточку товара.
// Цена хранится как NUMERIC(12,2) и не проходит через float64,
// чтобы не накапливать ошибку округления.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Slug        string          `db:"slug" json:"slug"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Currency    string          `db:"currency" json:"currency"`
	Stock       int             `db:"stock" json:"stock"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	Images      StringList      `db:"images" json:"images"`
	Attributes  AttrMap         `db:"attributes" json:"attributes"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// StringList хранит упорядоченный список строк в JSON колонке
// (ссылки на изображения товара).
type StringList []string

// Value сериализует список для записи в БД. nil пишется как NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan читает JSON колонку в список.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("models: не удалось прочитать список из %T", src)
	}
}

// AttrMap хранит произвольные атрибуты товара в JSON колонке
// ({"brand": "...", "size": "M", ...}).
type AttrMap map[string]interface{}

// Value сериализует атрибуты для записи в БД. nil пишется как NULL.
func (m AttrMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan читает JSON колонку в карту атрибутов.
func (m *AttrMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("models: не удалось прочитать атрибуты из %T", src)
	}
}
