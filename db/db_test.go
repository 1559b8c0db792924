package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func record(id, title string) Record {
	return Record{Id: id, Title: title, Created: created, Arrangement: json.RawMessage(`{"entries":[]}`)}
}

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, record("a", "Blue Bossa")))

	r, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Blue Bossa", r.Title)

	_, err = m.Get(ctx, "b")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Error(t, m.Put(ctx, Record{}))
}

func TestMemorySummaries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, record("a", "One")))
	require.NoError(t, m.Put(ctx, record("b", "Two")))

	got, err := m.Summaries(ctx, []string{"a", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]Summary{"a": {Id: "a", Title: "One", Created: created}}, got)

	_, err = m.Summaries(ctx, make([]string, MaxBatch+1))
	assert.Error(t, err)
}

func TestMemoryIds(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	late := record("z", "")
	late.Created = created.Add(-time.Hour)
	require.NoError(t, m.Put(ctx, record("b", "")))
	require.NoError(t, m.Put(ctx, record("a", "")))
	require.NoError(t, m.Put(ctx, late))
	assert.Equal(t, []string{"z", "a", "b"}, m.Ids())
}

func TestMemoryConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Put(ctx, record(fmt.Sprint(i), "")))
		}(i)
	}
	wg.Wait()
	assert.Len(t, m.Ids(), 50)
}

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
}

func (f *fakeDynamo) PutItemWithContext(ctx aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(ctx aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func (f *fakeDynamo) BatchGetItemWithContext(ctx aws.Context, in *dynamodb.BatchGetItemInput, _ ...request.Option) (*dynamodb.BatchGetItemOutput, error) {
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestDynamoRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	d := NewDynamoWithClient(fake, "arrangements")

	require.NoError(t, d.Put(ctx, record("a", "Blue Bossa")))
	require.NoError(t, d.Put(ctx, record("b", "")))
	_, hasTitle := fake.items["b"]["Title"]
	assert.False(t, hasTitle)

	r, err := d.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, record("a", "Blue Bossa"), r)

	_, err = d.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	got, err := d.Summaries(ctx, []string{"a", "b", "nope"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Blue Bossa", got["a"].Title)
	assert.True(t, created.Equal(got["b"].Created))
}
