package main

import (
	"bookrec/internal/book"
	"bookrec/internal/readinglist"
)

var sampleBooks = []book.Book{
	{ID: "1", Title: "Atomic Habits", Author: "James Clear", Genre: "Non-fiction", Description: "Easy guide to building good habits and breaking bad ones", Rating: 4.5, PublishedYear: 2018, ISBN: "978-0735211292"},
	{ID: "2", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", Description: "A classic American novel about the Jazz Age", Rating: 4.2, PublishedYear: 1925, ISBN: "978-0743273565"},
	{ID: "3", Title: "Sapiens", Author: "Yuval Noah Harari", Genre: "History", Description: "A brief history of humankind", Rating: 4.4, PublishedYear: 2014, ISBN: "978-0062316097"},
	{ID: "4", Title: "The Psychology of Money", Author: "Morgan Housel", Genre: "Finance", Description: "Timeless lessons on wealth, greed, and happiness", Rating: 4.6, PublishedYear: 2020, ISBN: "978-0857197689"},
	{ID: "5", Title: "1984", Author: "George Orwell", Genre: "Dystopian Fiction", Description: "A dystopian social science fiction novel", Rating: 4.3, PublishedYear: 1949, ISBN: "978-0451524935"},
	{ID: "6", Title: "Educated", Author: "Tara Westover", Genre: "Memoir", Description: "A memoir about education and family", Rating: 4.4, PublishedYear: 2018, ISBN: "978-0399590504"},
	{ID: "7", Title: "The Lean Startup", Author: "Eric Ries", Genre: "Business", Description: "How constant innovation creates radically successful businesses", Rating: 4.1, PublishedYear: 2011, ISBN: "978-0307887894"},
	{ID: "8", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Description: "Epic science fiction novel set on the desert planet Arrakis", Rating: 4.5, PublishedYear: 1965, ISBN: "978-0441172719"},
	{ID: "9", Title: "Becoming", Author: "Michelle Obama", Genre: "Biography", Description: "Memoir by former First Lady Michelle Obama", Rating: 4.7, PublishedYear: 2018, ISBN: "978-1524763138"},
	{ID: "10", Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Fiction", Description: "A philosophical novel about following your dreams", Rating: 4.0, PublishedYear: 1988, ISBN: "978-0062315007"},
	{ID: "11", Title: "Clean Code", Author: "Robert C. Martin", Genre: "Programming", Description: "A handbook of agile software craftsmanship", Rating: 4.3, PublishedYear: 2008, ISBN: "978-0132350884"},
}

type sampleList struct {
	userID string
	input  readinglist.CreateInput
}

var sampleLists = []sampleList{
	{"1", readinglist.CreateInput{Name: "My Favorites", Description: "Books I absolutely love and recommend to everyone", BookIDs: []string{"1", "3", "9"}}},
	{"1", readinglist.CreateInput{Name: "To Read Next", Description: "Books on my reading list for this year", BookIDs: []string{"2", "8", "10"}}},
	{"2", readinglist.CreateInput{Name: "Programming Books", Description: "Essential books for software developers", BookIDs: []string{"11", "7"}}},
}
