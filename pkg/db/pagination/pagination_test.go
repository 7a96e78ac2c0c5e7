package pagination

import "testing"

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "1234567890"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	cursor, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cursor.ID != "1234567890" {
		t.Fatalf("expected id back, got %q", cursor.ID)
	}

	if _, err := DecodeCursor("not-base64!!"); err == nil {
		t.Fatal("expected malformed token to fail")
	}
}

func TestQueryClamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultPageSize},
		{-5, DefaultPageSize},
		{10, 10},
		{MaxPageSize, MaxPageSize},
		{MaxPageSize + 1, MaxPageSize},
	}
	for _, tt := range tests {
		if got := (Query{PageSize: tt.in}).Clamp(); got != tt.want {
			t.Fatalf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTrim(t *testing.T) {
	cursorOf := func(v int) Cursor { return Cursor{ID: string(rune('a' + v))} }

	// Under-full page: nothing trimmed, no next token.
	items, info, err := Trim([]int{0, 1}, 3, cursorOf)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if len(items) != 2 || info.HasMore || info.NextPageToken != "" {
		t.Fatalf("unexpected result: items=%v info=%+v", items, info)
	}

	// Over-fetched page: extra row dropped, token points at the last kept row.
	items, info, err = Trim([]int{0, 1, 2, 3}, 3, cursorOf)
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}
	if len(items) != 3 || !info.HasMore {
		t.Fatalf("unexpected result: items=%v info=%+v", items, info)
	}
	cursor, err := DecodeCursor(info.NextPageToken)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cursor.ID != "c" {
		t.Fatalf("expected cursor at last kept row, got %q", cursor.ID)
	}
}
