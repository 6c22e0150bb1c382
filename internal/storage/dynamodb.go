package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sheetPartition is the partition key value shared by every order row
const sheetPartition = "orders"

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoStore
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// dynamoRow is one sheet row as stored in DynamoDB
type dynamoRow struct {
	Sheet  string   `dynamodbav:"sheet"`   // PK
	RowKey string   `dynamodbav:"row_key"` // SK, sorts in append order
	Cells  []string `dynamodbav:"cells"`
}

// DynamoStore keeps the order sheet in a DynamoDB table keyed by (sheet, row_key)
type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewDynamoStore returns a store bound to tableName
func NewDynamoStore(client DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// NewDynamoStoreFromConfig loads the default AWS config for region and builds a client
func NewDynamoStoreFromConfig(ctx context.Context, region, tableName string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load AWS config")
	}
	return NewDynamoStore(dynamodb.NewFromConfig(cfg), tableName), nil
}

// AppendRow puts one item whose sort key orders it after every earlier row
func (d *DynamoStore) AppendRow(ctx context.Context, row []string) error {
	item, err := attributevalue.MarshalMap(dynamoRow{
		Sheet:  sheetPartition,
		RowKey: fmt.Sprintf("%020d#%s", d.nowFunc().UnixNano(), uuid.NewString()),
		Cells:  cloneRow(row),
	})
	if err != nil {
		return errors.Wrap(err, "marshal row")
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &d.tableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(row_key)"),
	})
	if err != nil {
		return errors.Wrap(err, "put item")
	}
	return nil
}

// ReadAllRows queries the whole partition in sort-key order
func (d *DynamoStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	input := &dynamodb.QueryInput{
		TableName:                &d.tableName,
		KeyConditionExpression:   aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": "sheet"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: sheetPartition},
		},
		ScanIndexForward: aws.Bool(true),
		ConsistentRead:   aws.Bool(true),
	}

	var rows [][]string
	p := dynamodb.NewQueryPaginator(d.client, input)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "query rows")
		}
		var page []dynamoRow
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, errors.Wrap(err, "unmarshal rows")
		}
		for _, r := range page {
			rows = append(rows, r.Cells)
		}
	}
	return withHeader(rows), nil
}
