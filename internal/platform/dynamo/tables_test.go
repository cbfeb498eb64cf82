package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdmin struct {
	tables      map[string]bool
	created     []*dynamodb.CreateTableInput
	describeErr error
}

func (f *fakeAdmin) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	name := aws.ToString(in.TableName)
	if !f.tables[name] {
		return nil, &types.ResourceNotFoundException{Message: aws.String("no table " + name)}
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *fakeAdmin) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = append(f.created, in)
	f.tables[aws.ToString(in.TableName)] = true
	return &dynamodb.CreateTableOutput{}, nil
}

func TestEnsureTables(t *testing.T) {
	t.Run("creates missing tables", func(t *testing.T) {
		api := &fakeAdmin{tables: map[string]bool{"Books": true}}

		require.NoError(t, EnsureTables(context.Background(), api, "Books", "ReadingLists", "userId-index"))

		require.Len(t, api.created, 1)
		lists := api.created[0]
		assert.Equal(t, "ReadingLists", aws.ToString(lists.TableName))
		require.Len(t, lists.KeySchema, 2)
		assert.Equal(t, "userId", aws.ToString(lists.KeySchema[1].AttributeName))
		require.Len(t, lists.GlobalSecondaryIndexes, 1)
		assert.Equal(t, "userId-index", aws.ToString(lists.GlobalSecondaryIndexes[0].IndexName))
	})

	t.Run("describe failure is not treated as missing", func(t *testing.T) {
		api := &fakeAdmin{tables: map[string]bool{}, describeErr: errors.New("access denied")}

		err := EnsureTables(context.Background(), api, "Books", "ReadingLists", "userId-index")
		assert.ErrorContains(t, err, "describe table Books")
		assert.Empty(t, api.created)
	})
}

func TestPing(t *testing.T) {
	api := &fakeAdmin{tables: map[string]bool{"Books": true}}
	assert.NoError(t, Ping(context.Background(), api, "Books"))
	assert.ErrorContains(t, Ping(context.Background(), api, "Missing"), "describe table Missing")
}
