package book

import (
	"errors"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book is a catalog entry. Field names are the stored and wire contract.
type Book struct {
	ID            string  `json:"id" dynamodbav:"id"`
	Title         string  `json:"title" dynamodbav:"title"`
	Author        string  `json:"author" dynamodbav:"author"`
	Genre         string  `json:"genre" dynamodbav:"genre"`
	Description   string  `json:"description" dynamodbav:"description"`
	CoverImage    string  `json:"coverImage,omitempty" dynamodbav:"coverImage,omitempty"`
	Rating        float64 `json:"rating" dynamodbav:"rating"`
	PublishedYear int     `json:"publishedYear" dynamodbav:"publishedYear"`
	ISBN          string  `json:"isbn" dynamodbav:"isbn"`
}

// CreateInput is the body of a catalog create request.
type CreateInput struct {
	Title         string  `json:"title" validate:"required,max=300"`
	Author        string  `json:"author" validate:"required,max=200"`
	Genre         string  `json:"genre" validate:"max=100"`
	Description   string  `json:"description" validate:"max=5000"`
	CoverImage    string  `json:"coverImage" validate:"omitempty,url"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	PublishedYear int     `json:"publishedYear" validate:"gte=0,lte=9999"`
	ISBN          string  `json:"isbn" validate:"omitempty,isbn"`
}
