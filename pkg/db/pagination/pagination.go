// Package pagination implements opaque cursor tokens for list endpoints.
package pagination

import (
	"encoding/base64"
	"encoding/json"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 250
)

type Query struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Clamp normalizes the requested page size into the allowed range.
func (q Query) Clamp() int {
	if q.PageSize <= 0 {
		return DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return q.PageSize
}

// Cursor marks the last row of a page. Tokens are opaque to clients.
type Cursor struct {
	ID string `json:"id,omitempty"`
}

func EncodeCursor(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(token string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}
	return &cursor, nil
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

// Trim cuts an over-fetched result down to the page size and builds the
// next-page token from the last retained item. Callers fetch one row
// more than the page size to detect whether another page exists.
func Trim[T any](items []T, pageSize int, cursorOf func(T) Cursor) ([]T, PageInfo, error) {
	if len(items) <= pageSize {
		return items, PageInfo{}, nil
	}
	items = items[:pageSize]
	token, err := EncodeCursor(cursorOf(items[len(items)-1]))
	if err != nil {
		return items, PageInfo{}, err
	}
	return items, PageInfo{NextPageToken: token, HasMore: true}, nil
}
