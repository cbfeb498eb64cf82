package readinglist

import (
	"context"
	"errors"
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

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.UpdateItemOutput), args.Error(1)
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := f.Called(ctx, in)
	return args.Get(0).(*dynamodb.DeleteItemOutput), args.Error(1)
}

func keyOf(key map[string]types.AttributeValue) (string, string) {
	id, _ := key["id"].(*types.AttributeValueMemberS)
	user, _ := key["userId"].(*types.AttributeValueMemberS)
	if id == nil || user == nil {
		return "", ""
	}
	return id.Value, user.Value
}

func TestDynamoRepo_ListByUserQueriesIndex(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "ReadingLists", "userId-index", time.Second)

	item, err := attributevalue.MarshalMap(ReadingList{ID: "1", UserID: "u1", Name: "A", BookIDs: []string{"1"}})
	require.NoError(t, err)

	db.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.TableName) == "ReadingLists" && aws.ToString(in.IndexName) == "userId-index" &&
			in.ExpressionAttributeValues != nil
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil)

	lists, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "A", lists[0].Name)
	db.AssertExpectations(t)
}

func TestDynamoRepo_Update(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "ReadingLists", "userId-index", time.Second)

	p, err := NewPatch(UpdateInput{Description: strPtr("d")})
	require.NoError(t, err)

	attrs, err := attributevalue.MarshalMap(ReadingList{ID: "l1", UserID: "u1", Name: "A", Description: "d", UpdatedAt: FormatTime(fixedNow)})
	require.NoError(t, err)

	db.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		id, user := keyOf(in.Key)
		return id == "l1" && user == "u1" &&
			in.ReturnValues == types.ReturnValueAllNew &&
			in.ConditionExpression != nil && in.UpdateExpression != nil
	})).Return(&dynamodb.UpdateItemOutput{Attributes: attrs}, nil).Once()

	got, err := repo.Update(context.Background(), "l1", "u1", p, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "d", got.Description)
	assert.Equal(t, "A", got.Name)
}

func TestDynamoRepo_UpdateMissingIsNotFound(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "ReadingLists", "userId-index", time.Second)
	p, err := NewPatch(UpdateInput{})
	require.NoError(t, err)

	db.On("UpdateItem", mock.Anything, mock.Anything).
		Return((*dynamodb.UpdateItemOutput)(nil), &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")})

	_, err = repo.Update(context.Background(), "nope", "u1", p, fixedNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoRepo_DeleteUsesCompositeKey(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "ReadingLists", "userId-index", time.Second)

	db.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		id, user := keyOf(in.Key)
		return id == "l1" && user == "u1"
	})).Return(&dynamodb.DeleteItemOutput{}, nil)

	require.NoError(t, repo.Delete(context.Background(), "l1", "u1"))

	db2 := &fakeDynamo{}
	db2.On("DeleteItem", mock.Anything, mock.Anything).Return((*dynamodb.DeleteItemOutput)(nil), errors.New("boom"))
	assert.Error(t, NewDynamoRepo(db2, "ReadingLists", "userId-index", time.Second).Delete(context.Background(), "l1", "u1"))
}

func TestDynamoRepo_CreateWritesEmptyBookList(t *testing.T) {
	db := &fakeDynamo{}
	repo := NewDynamoRepo(db, "ReadingLists", "userId-index", time.Second)

	db.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		l, ok := in.Item["bookIds"].(*types.AttributeValueMemberL)
		return ok && len(l.Value) == 0
	})).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, repo.Create(context.Background(), ReadingList{ID: "l1", UserID: "u1", Name: "n", BookIDs: []string{}}))
	db.AssertExpectations(t)
}
