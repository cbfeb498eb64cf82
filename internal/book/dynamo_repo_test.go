package book

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	mock.Mock
}

func (f *fakeDynamo) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.ScanOutput), args.Error(1)
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func mustMarshal(t *testing.T, b Book) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(b)
	require.NoError(t, err)
	return item
}

func TestDynamoRepo_ListFollowsPagination(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "Books", time.Second)

	first := Book{ID: "1", Title: "Sapiens"}
	second := Book{ID: "2", Title: "Educated"}
	lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "1"}}

	db.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool { return in.ExclusiveStartKey == nil })).
		Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{mustMarshal(t, first)}, LastEvaluatedKey: lastKey}, nil).Once()
	db.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool { return in.ExclusiveStartKey != nil })).
		Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{mustMarshal(t, second)}}, nil).Once()

	books, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Book{first, second}, books)
	db.AssertExpectations(t)
}

func TestDynamoRepo_Get(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "Books", time.Second)
	want := Book{ID: "8", Title: "Dune", Author: "Frank Herbert", CoverImage: "https://example.com/dune.jpg", PublishedYear: 1965}

	db.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return aws.ToString(in.TableName) == "Books" && in.Key["id"].(*types.AttributeValueMemberS).Value == "8"
	})).Return(&dynamodb.GetItemOutput{Item: mustMarshal(t, want)}, nil)
	db.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	got, err := repo.Get(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoRepo_PutOmitsEmptyCover(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "Books", time.Second)

	db.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		_, hasCover := in.Item["coverImage"]
		return !hasCover && in.Item["title"].(*types.AttributeValueMemberS).Value == "1984"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, repo.Put(context.Background(), Book{ID: "5", Title: "1984"}))
	db.AssertExpectations(t)
}
