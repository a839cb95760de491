package model

import "time"

type Book struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Year       int       `json:"year"`
	Author     string    `json:"author"`
	Summary    string    `json:"summary"`
	Publisher  string    `json:"publisher"`
	PageCount  int       `json:"pageCount"`
	ReadPage   int       `json:"readPage"`
	Finished   bool      `json:"finished"`
	Reading    bool      `json:"reading"`
	InsertedAt time.Time `json:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Apply replaces every caller-owned field and recomputes Finished.
func (b *Book) Apply(req BookRequest) {
	b.Name = req.Name
	b.Year = req.Year
	b.Author = req.Author
	b.Summary = req.Summary
	b.Publisher = req.Publisher
	b.PageCount = req.PageCount
	b.ReadPage = req.ReadPage
	b.Reading = req.Reading
	b.Finished = req.PageCount == req.ReadPage
}

func (b Book) Summarize() BookSummary {
	return BookSummary{ID: b.ID, Name: b.Name, Publisher: b.Publisher}
}

type BookRequest struct {
	Name      string `json:"name" validate:"required"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	PageCount int    `json:"pageCount"`
	ReadPage  int    `json:"readPage" validate:"ltefield=PageCount"`
	Reading   bool   `json:"reading"`
}

type BookSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

type BookFilter struct {
	Name     string
	Reading  Flag
	Finished Flag
}

// Flag is a boolean query filter that may be absent.
type Flag uint8

const (
	FlagUnset Flag = iota
	FlagFalse
	FlagTrue
)

// ParseFlag accepts only the literals "0" and "1"; anything else disables the filter.
func ParseFlag(s string) Flag {
	switch s {
	case "0":
		return FlagFalse
	case "1":
		return FlagTrue
	default:
		return FlagUnset
	}
}

func (f Flag) Match(v bool) bool {
	switch f {
	case FlagTrue:
		return v
	case FlagFalse:
		return !v
	default:
		return true
	}
}
