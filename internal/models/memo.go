package models

// Memo is a sticky note on the memo board.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// MemoColor is one entry of the fixed memo palette.
type MemoColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// MemoPalette lists the allowed memo colours; the first one is the default.
var MemoPalette = []MemoColor{
	{Name: "yellow", Hex: "#f7df1e"},
	{Name: "green", Hex: "#4caf50"},
	{Name: "blue", Hex: "#2196f3"},
	{Name: "pink", Hex: "#e91e63"},
	{Name: "purple", Hex: "#9c27b0"},
	{Name: "gray", Hex: "#9e9e9e"},
}

// LookupMemoColor resolves a palette name or hex value to its hex value.
func LookupMemoColor(s string) (string, bool) {
	for _, c := range MemoPalette {
		if s == c.Name || s == c.Hex {
			return c.Hex, true
		}
	}
	return "", false
}
