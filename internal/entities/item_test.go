package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemFromRow(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		item, ok := ItemFromRow([]string{"c1", "root1", "Контакты", "+7 999 123 4567", "phone", "круглосуточно"})
		require.True(t, ok)
		assert.Equal(t, "c1", item.ID)
		assert.Equal(t, "root1", item.Parent)
		assert.Equal(t, "Контакты", item.Text)
		assert.Equal(t, "+7 999 123 4567", item.Data)
		assert.Equal(t, TypePhone, item.Type)
		assert.Equal(t, "круглосуточно", item.Extra)
	})

	t.Run("three fields is enough", func(t *testing.T) {
		item, ok := ItemFromRow([]string{"root1", "", "Клиника"})
		require.True(t, ok)
		assert.Equal(t, "root1", item.ID)
		assert.Empty(t, item.Parent)
		assert.Equal(t, TypeText, item.Type)
	})

	t.Run("cells are trimmed", func(t *testing.T) {
		item, ok := ItemFromRow([]string{" id ", " p ", " текст ", " данные "})
		require.True(t, ok)
		assert.Equal(t, "id", item.ID)
		assert.Equal(t, "p", item.Parent)
		assert.Equal(t, "текст", item.Text)
		assert.Equal(t, "данные", item.Data)
	})

	t.Run("short rows are dropped", func(t *testing.T) {
		_, ok := ItemFromRow([]string{"id", "parent"})
		assert.False(t, ok)
	})

	t.Run("empty id is dropped", func(t *testing.T) {
		_, ok := ItemFromRow([]string{"  ", "parent", "текст"})
		assert.False(t, ok)
	})

	t.Run("empty text is dropped", func(t *testing.T) {
		_, ok := ItemFromRow([]string{"id", "parent", "   "})
		assert.False(t, ok)
	})
}

func TestItemRowRoundTrip(t *testing.T) {
	original := Item{
		ID:     "c1",
		Parent: "root1",
		Text:   "Регистратура",
		Data:   "+7 495 000 00 00",
		Type:   TypePhone,
		Extra:  "с 8 до 20",
	}

	got, ok := ItemFromRow(original.Row())
	require.True(t, ok)
	assert.Equal(t, original, got)
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in   string
		want ContentType
	}{
		{"text", TypeText},
		{"phone", TypePhone},
		{"menu", TypeMenu},
		{"submenu", TypeSubmenu},
		{"link", TypeLink},
		{"email", TypeEmail},
		{" menu ", TypeMenu},
		{"", TypeText},
		{"video", TypeText},
		{"PHONE", TypeText}, // types are case-sensitive, like the sheet convention
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseContentType(tt.in), "input %q", tt.in)
	}
}
