package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory table keyed by row_key, enough for PutItem and a single-partition Query.
type mockDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	putErr   error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return nil, m.putErr
	}
	k, ok := params.Item["row_key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing row_key")
	}
	if _, exists := m.items[k.Value]; exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	m.items[k.Value] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		last := params.ExclusiveStartKey["row_key"].(*types.AttributeValueMemberS).Value
		start = sort.SearchStrings(keys, last) + 1
	}

	end := len(keys)
	if m.pageSize > 0 && start+m.pageSize < end {
		end = start + m.pageSize
	}

	out := &dynamodb.QueryOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, m.items[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"sheet":   &types.AttributeValueMemberS{Value: sheetPartition},
			"row_key": &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}
