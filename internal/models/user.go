package models

import "time"

// User описывает покупателя или администратора магазина.
// Запись создаётся при первом входе в WebApp по tg_id.
type User struct {
	ID        int64     `db:"id" json:"id"`
	TgID      int64     `db:"tg_id" json:"tg_id"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
