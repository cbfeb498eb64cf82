package main

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrec/internal/book"
	"bookrec/internal/httpx"
	"bookrec/internal/readinglist"
)

func TestSampleBooksAreValid(t *testing.T) {
	ids := map[string]bool{}
	for _, b := range sampleBooks {
		assert.False(t, ids[b.ID], "duplicate id %s", b.ID)
		ids[b.ID] = true

		in := book.CreateInput{Title: b.Title, Author: b.Author, Genre: b.Genre, Description: b.Description, Rating: b.Rating, PublishedYear: b.PublishedYear, ISBN: b.ISBN}
		assert.Empty(t, httpx.ValidateStruct(in), b.Title)
	}

	for _, l := range sampleLists {
		for _, id := range l.input.BookIDs {
			assert.True(t, ids[id], "list %q references unknown book %s", l.input.Name, id)
		}
	}
}

func TestLoadBooks_StopsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)
	boom := errors.New("throttled")
	repo.EXPECT().Put(gomock.Any(), sampleBooks[0]).Return(nil)
	repo.EXPECT().Put(gomock.Any(), sampleBooks[1]).Return(boom)

	assert.ErrorIs(t, loadBooks(context.Background(), repo, sampleBooks), boom)
}

func TestLoadLists(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := readinglist.NewMockRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l readinglist.ReadingList) error {
		assert.NotEmpty(t, l.ID)
		assert.NotEmpty(t, l.CreatedAt)
		return nil
	}).Times(len(sampleLists))

	require.NoError(t, loadLists(context.Background(), readinglist.NewService(repo), sampleLists))
}

func TestSplitSubjects(t *testing.T) {
	assert.Nil(t, splitSubjects(""))
	assert.Equal(t, []string{"fantasy", "science_fiction"}, splitSubjects(" fantasy, ,science_fiction "))
}
