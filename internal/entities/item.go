package entities

import "strings"

// ContentType classifies how a menu item is rendered
type ContentType string

const (
	TypeText    ContentType = "text"
	TypePhone   ContentType = "phone"
	TypeMenu    ContentType = "menu"
	TypeSubmenu ContentType = "submenu"
	TypeLink    ContentType = "link"
	TypeEmail   ContentType = "email"
)

// ParseContentType maps a raw sheet value to a ContentType.
// Anything unrecognized (including empty) falls back to text.
func ParseContentType(s string) ContentType {
	switch ContentType(strings.TrimSpace(s)) {
	case TypePhone:
		return TypePhone
	case TypeMenu:
		return TypeMenu
	case TypeSubmenu:
		return TypeSubmenu
	case TypeLink:
		return TypeLink
	case TypeEmail:
		return TypeEmail
	default:
		return TypeText
	}
}

// Sheet column indexes
const (
	colID     = 0 // unique id, doubles as callback data
	colParent = 1 // parent item id, empty for roots
	colText   = 2 // display text
	colData   = 3 // payload: phone number, URL, body text
	colType   = 4 // content type
	colExtra  = 5 // optional note shown below the payload
)

// Item is one node of the content tree
type Item struct {
	ID     string      `json:"id"`
	Parent string      `json:"parent"`
	Text   string      `json:"text"`
	Data   string      `json:"data"`
	Type   ContentType `json:"type"`
	Extra  string      `json:"extra"`
}

// Snapshot is the full ordered item set as of the last fetch.
// It is replaced wholesale on refresh, never mutated in place.
type Snapshot []Item

// ItemFromRow builds an Item from a raw sheet row. Rows with fewer
// than 3 cells, or with an empty id/text after trimming, are not
// items and return ok=false.
func ItemFromRow(row []string) (Item, bool) {
	if len(row) < 3 {
		return Item{}, false
	}

	id := strings.TrimSpace(row[colID])
	parent := strings.TrimSpace(row[colParent])
	text := strings.TrimSpace(row[colText])
	if id == "" || text == "" {
		return Item{}, false
	}

	item := Item{ID: id, Parent: parent, Text: text, Type: TypeText}
	if len(row) > colData {
		item.Data = strings.TrimSpace(row[colData])
	}
	if len(row) > colType {
		item.Type = ParseContentType(row[colType])
	}
	if len(row) > colExtra {
		item.Extra = strings.TrimSpace(row[colExtra])
	}
	return item, true
}

// Row is the inverse of ItemFromRow
func (i Item) Row() []string {
	return []string{i.ID, i.Parent, i.Text, i.Data, string(i.Type), i.Extra}
}

// HeaderRow is written as row 0 when replacing the source contents
func HeaderRow() []string {
	return []string{"id", "parent", "text", "data", "type", "extra"}
}
