package db

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

// Dynamo keeps arrangements in a DynamoDB table keyed by "PK".
type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamo(endpoint, region, table string) (*Dynamo, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewDynamoWithClient(dynamodb.New(sess), table), nil
}

func NewDynamoWithClient(client dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

func (d *Dynamo) Put(ctx context.Context, r Record) error {
	if r.Id == "" {
		return errors.New("record has no id")
	}
	item := map[string]*dynamodb.AttributeValue{
		"PK":          {S: aws.String(r.Id)},
		"Created":     {S: aws.String(r.Created.UTC().Format(time.RFC3339Nano))},
		"Arrangement": {S: aws.String(string(r.Arrangement))},
	}
	if r.Title != "" {
		item["Title"] = &dynamodb.AttributeValue{S: aws.String(r.Title)}
	}
	_, err := d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return errors.Wrap(err, "error from DynamoDB")
}

func (d *Dynamo) Get(ctx context.Context, id string) (Record, error) {
	out, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       map[string]*dynamodb.AttributeValue{"PK": {S: aws.String(id)}},
	})
	if err != nil {
		return Record{}, errors.Wrap(err, "error from DynamoDB")
	}
	if len(out.Item) == 0 {
		return Record{}, errors.Wrap(ErrNotFound, id)
	}
	r := fromItem(out.Item)
	if v, ok := out.Item["Arrangement"]; ok && v.S != nil {
		r.Arrangement = []byte(*v.S)
	}
	return r, nil
}

func (d *Dynamo) Summaries(ctx context.Context, ids []string) (map[string]Summary, error) {
	if len(ids) > MaxBatch {
		return nil, errors.Errorf("at most %d ids per lookup", MaxBatch)
	}
	res := make(map[string]Summary)
	if len(ids) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range ids {
		keys = append(keys, map[string]*dynamodb.AttributeValue{"PK": {S: aws.String(id)}})
	}
	out, err := d.client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			d.table: {
				Keys:                 keys,
				ProjectionExpression: aws.String("PK, Title, Created"),
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}
	// TODO: retry out.UnprocessedKeys when the table is throttled
	for _, item := range out.Responses[d.table] {
		r := fromItem(item)
		res[r.Id] = r.summary()
	}
	return res, nil
}

func fromItem(item map[string]*dynamodb.AttributeValue) Record {
	var r Record
	if v, ok := item["PK"]; ok && v.S != nil {
		r.Id = *v.S
	}
	if v, ok := item["Title"]; ok && v.S != nil {
		r.Title = *v.S
	}
	if v, ok := item["Created"]; ok && v.S != nil {
		r.Created, _ = time.Parse(time.RFC3339Nano, *v.S)
	}
	return r
}
