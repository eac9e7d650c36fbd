package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/example/pagdiwala/internal/model"
)

// dynamoBatchLimit is the maximum number of write requests per BatchWriteItem call
const dynamoBatchLimit = 25

var ErrUnprocessedWrites = errors.New("dynamodb left writes unprocessed")

// DynamoAPI is the subset of the DynamoDB client used by the cart store
type DynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoCartStore keeps cart lines in a DynamoDB table keyed by
// user_id (partition) and product_id (sort).
type DynamoCartStore struct {
	client    DynamoAPI
	tableName string
}

// dynamoCartLine represents the DynamoDB item structure
type dynamoCartLine struct {
	UserID    string `dynamodbav:"user_id"`
	ProductID string `dynamodbav:"product_id"`
	Quantity  int    `dynamodbav:"quantity"`
}

func NewDynamoCartStore(client DynamoAPI, tableName string) *DynamoCartStore {
	return &DynamoCartStore{client: client, tableName: tableName}
}

func (s *DynamoCartStore) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	var lines []model.CartLine
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("user_id = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query cart lines: %w", err)
		}

		var items []dynamoCartLine
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal cart lines: %w", err)
		}
		for _, item := range items {
			lines = append(lines, model.CartLine{UserID: item.UserID, ProductID: item.ProductID, Quantity: item.Quantity})
		}

		if len(out.LastEvaluatedKey) == 0 {
			return lines, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *DynamoCartStore) DeleteCartLines(ctx context.Context, userID string) error {
	lines, err := s.CartLines(ctx, userID)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(lines))
	for _, l := range lines {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"user_id":    &types.AttributeValueMemberS{Value: l.UserID},
					"product_id": &types.AttributeValueMemberS{Value: l.ProductID},
				},
			},
		})
	}
	return s.batchWrite(ctx, requests)
}

func (s *DynamoCartStore) InsertCartLines(ctx context.Context, lines []model.CartLine) error {
	requests := make([]types.WriteRequest, 0, len(lines))
	for _, l := range lines {
		av, err := attributevalue.MarshalMap(dynamoCartLine{UserID: l.UserID, ProductID: l.ProductID, Quantity: l.Quantity})
		if err != nil {
			return fmt.Errorf("marshal cart line: %w", err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	return s.batchWrite(ctx, requests)
}

func (s *DynamoCartStore) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += dynamoBatchLimit {
		end := min(start+dynamoBatchLimit, len(requests))
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: requests[start:end],
			},
		})
		if err != nil {
			return fmt.Errorf("batch write cart lines: %w", err)
		}
		if n := len(out.UnprocessedItems[s.tableName]); n > 0 {
			return fmt.Errorf("%w: %d requests", ErrUnprocessedWrites, n)
		}
	}
	return nil
}
