package book

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"bookrec/internal/platform/dynamo"
)

// DynamoAPI is the slice of the DynamoDB client the catalog uses.
type DynamoAPI interface {
	dynamo.TableDescriber
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type DynamoRepo struct {
	db      DynamoAPI
	table   string
	timeout time.Duration
}

func NewDynamoRepo(db DynamoAPI, table string, timeout time.Duration) *DynamoRepo {
	return &DynamoRepo{db: db, table: table, timeout: timeout}
}

func (r *DynamoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// List scans the whole table, following pagination until it is exhausted.
func (r *DynamoRepo) List(ctx context.Context) ([]Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	out := []Book{}
	p := dynamodb.NewScanPaginator(r.db, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		var books []Book
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &books); err != nil {
			return nil, fmt.Errorf("decode books: %w", err)
		}
		out = append(out, books...)
	}
	return out, nil
}

func (r *DynamoRepo) Get(ctx context.Context, id string) (Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return Book{}, fmt.Errorf("get book %s: %w", id, err)
	}
	if len(res.Item) == 0 {
		return Book{}, ErrNotFound
	}

	var b Book
	if err := attributevalue.UnmarshalMap(res.Item, &b); err != nil {
		return Book{}, fmt.Errorf("decode book %s: %w", id, err)
	}
	return b, nil
}

func (r *DynamoRepo) Put(ctx context.Context, b Book) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("encode book %s: %w", b.ID, err)
	}
	if _, err := r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put book %s: %w", b.ID, err)
	}
	return nil
}

// Ping reports whether the table is reachable.
func (r *DynamoRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return dynamo.Ping(ctx, r.db, r.table)
}
