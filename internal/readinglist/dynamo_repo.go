package readinglist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"bookrec/internal/platform/dynamo"
)

// DynamoAPI is the slice of the DynamoDB client reading lists use.
type DynamoAPI interface {
	dynamo.TableDescriber
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type DynamoRepo struct {
	db        DynamoAPI
	table     string
	userIndex string
	timeout   time.Duration
}

func NewDynamoRepo(db DynamoAPI, table, userIndex string, timeout time.Duration) *DynamoRepo {
	return &DynamoRepo{db: db, table: table, userIndex: userIndex, timeout: timeout}
}

func (r *DynamoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func itemKey(id, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: id},
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// ListByUser queries the owner index.
func (r *DynamoRepo) ListByUser(ctx context.Context, userID string) ([]ReadingList, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("userId").Equal(expression.Value(userID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []ReadingList{}
	p := dynamodb.NewQueryPaginator(r.db, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(r.userIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", r.userIndex, err)
		}
		var lists []ReadingList
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &lists); err != nil {
			return nil, fmt.Errorf("decode reading lists: %w", err)
		}
		out = append(out, lists...)
	}
	return out, nil
}

func (r *DynamoRepo) Create(ctx context.Context, l ReadingList) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("encode reading list %s: %w", l.ID, err)
	}
	if _, err := r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put reading list %s: %w", l.ID, err)
	}
	return nil
}

// updateExpression renders the patch as a SET expression conditioned on the
// record existing.
func updateExpression(p *Patch, now time.Time) (expression.Expression, error) {
	sets := p.Build(now)
	update := expression.Set(expression.Name(string(sets[0].Field)), expression.Value(sets[0].Value))
	for _, a := range sets[1:] {
		update = update.Set(expression.Name(string(a.Field)), expression.Value(a.Value))
	}
	return expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
}

func (r *DynamoRepo) Update(ctx context.Context, id, userID string, p *Patch, now time.Time) (ReadingList, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	expr, err := updateExpression(p, now)
	if err != nil {
		return ReadingList{}, fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       itemKey(id, userID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ReadingList{}, ErrNotFound
		}
		return ReadingList{}, fmt.Errorf("update reading list %s: %w", id, err)
	}

	var l ReadingList
	if err := attributevalue.UnmarshalMap(res.Attributes, &l); err != nil {
		return ReadingList{}, fmt.Errorf("decode reading list %s: %w", id, err)
	}
	return l, nil
}

func (r *DynamoRepo) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       itemKey(id, userID),
	}); err != nil {
		return fmt.Errorf("delete reading list %s: %w", id, err)
	}
	return nil
}

func (r *DynamoRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return dynamo.Ping(ctx, r.db, r.table)
}
