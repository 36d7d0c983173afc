package domain

import "time"

// Entity is any persisted record addressed by a numeric primary key.
type Entity interface {
	EntityID() int64
}

// Identifiable is satisfied by *E when stores must assign the key themselves.
type Identifiable[E any] interface {
	*E
	Entity
	SetEntityID(id int64)
}

// Toucher is implemented by entities carrying audit timestamps.
type Toucher interface {
	Touch(now time.Time)
}

// Page is one window of an ordered listing.
type Page[E any] struct {
	Data       []E   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[E any](data []E, total int64, page, limit int) Page[E] {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	if data == nil {
		data = []E{}
	}
	return Page[E]{Data: data, Total: total, Page: page, Limit: limit, TotalPages: pages}
}
