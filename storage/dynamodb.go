/*
# Module: storage/dynamodb.go
DynamoDB implementation of the location store.

## Linked Modules
- [storage/repository](./repository.go) - Store adapter interface
- [types/location](../types/location.go) - Location data structures

## Tags
storage, dynamodb, persistence, repository

## Exports
DynamoStore, NewDynamoStore

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/dynamodb.go" ;
    code:description "DynamoDB implementation of the location store" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Store adapter interface"
    ], [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location data structures"
    ] ;
    code:exports :DynamoStore, :NewDynamoStore ;
    code:tags "storage", "dynamodb", "persistence", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Nayelilh/gps-tracking-server/types"
)

// DynamoStore implements LocationStore over the device-locations table
// (deviceId string HASH, timestamp number RANGE, TTL attribute expiresAt).
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
	timeout   time.Duration
}

// NewDynamoStore creates a DynamoDB-backed location store. Every call is
// bounded by timeout so a slow backend surfaces as ErrTimeout instead of a
// hung request.
func NewDynamoStore(client *dynamodb.Client, tableName string, timeout time.Duration) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		timeout:   timeout,
	}
}

// Put stores a location sample, overwriting any existing item with the same
// (deviceId, timestamp) key.
func (s *DynamoStore) Put(ctx context.Context, sample types.LocationSample) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	item, err := attributevalue.MarshalMap(sample)
	if err != nil {
		return &StoreError{Kind: ErrUnknown, Op: "put", Err: fmt.Errorf("marshal sample: %w", err)}
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return s.wrap("put", err)
	}

	return nil
}

// QueryByDevice runs a key-condition query on one partition. Time bounds go
// into the sort-key condition so the read cost is proportional to matches.
func (s *DynamoStore) QueryByDevice(ctx context.Context, deviceID string, startTime, endTime *int64, limit int, desc bool) ([]types.LocationSample, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	keyCondition := "deviceId = :deviceId"
	values := map[string]dynamodbtypes.AttributeValue{
		":deviceId": &dynamodbtypes.AttributeValueMemberS{Value: deviceID},
	}
	var names map[string]string

	switch {
	case startTime != nil && endTime != nil:
		keyCondition += " AND #ts BETWEEN :startTime AND :endTime"
		values[":startTime"] = &dynamodbtypes.AttributeValueMemberN{Value: strconv.FormatInt(*startTime, 10)}
		values[":endTime"] = &dynamodbtypes.AttributeValueMemberN{Value: strconv.FormatInt(*endTime, 10)}
		names = map[string]string{"#ts": "timestamp"}
	case startTime != nil:
		keyCondition += " AND #ts >= :startTime"
		values[":startTime"] = &dynamodbtypes.AttributeValueMemberN{Value: strconv.FormatInt(*startTime, 10)}
		names = map[string]string{"#ts": "timestamp"}
	case endTime != nil:
		keyCondition += " AND #ts <= :endTime"
		values[":endTime"] = &dynamodbtypes.AttributeValueMemberN{Value: strconv.FormatInt(*endTime, 10)}
		names = map[string]string{"#ts": "timestamp"}
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    aws.String(keyCondition),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
		ScanIndexForward:          aws.Bool(!desc),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, s.wrap("query", err)
	}

	samples := make([]types.LocationSample, 0, len(result.Items))
	for _, item := range result.Items {
		var sample types.LocationSample
		if err := attributevalue.UnmarshalMap(item, &sample); err != nil {
			log.Printf("⚠️  Failed to unmarshal location item: %v", err)
			continue
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// ScanFiltered walks the whole table, following pagination, and keeps items
// with timestamp >= minTimestamp. Fallback path for cross-device reads.
func (s *DynamoStore) ScanFiltered(ctx context.Context, minTimestamp int64) ([]types.LocationSample, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	samples := make([]types.LocationSample, 0)
	var lastEvaluatedKey map[string]dynamodbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                aws.String(s.tableName),
			FilterExpression:         aws.String("#ts >= :minTs"),
			ExpressionAttributeNames: map[string]string{"#ts": "timestamp"},
			ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
				":minTs": &dynamodbtypes.AttributeValueMemberN{Value: strconv.FormatInt(minTimestamp, 10)},
			},
		}
		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, s.wrap("scan", err)
		}

		for _, item := range result.Items {
			var sample types.LocationSample
			if err := attributevalue.UnmarshalMap(item, &sample); err != nil {
				log.Printf("⚠️  Failed to unmarshal location item: %v", err)
				continue
			}
			samples = append(samples, sample)
		}

		lastEvaluatedKey = result.LastEvaluatedKey
		if lastEvaluatedKey == nil {
			break
		}
	}

	return samples, nil
}

// CountFiltered is the COUNT form of ScanFiltered; no items cross the wire.
func (s *DynamoStore) CountFiltered(ctx context.Context, minTimestamp int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count := 0
	var lastEvaluatedKey map[string]dynamodbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                aws.String(s.tableName),
			FilterExpression:         aws.String("#ts >= :minTs"),
			ExpressionAttributeNames: map[string]string{"#ts": "timestamp"},
			ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
				":minTs": &dynamodbtypes.AttributeValueMemberN{Value: strconv.FormatInt(minTimestamp, 10)},
			},
			Select: dynamodbtypes.SelectCount,
		}
		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return 0, s.wrap("count", err)
		}

		count += int(result.Count)

		lastEvaluatedKey = result.LastEvaluatedKey
		if lastEvaluatedKey == nil {
			break
		}
	}

	return count, nil
}

// Ping issues a single-item scan to verify table access.
func (s *DynamoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
		Limit:     aws.Int32(1),
	})
	if err != nil {
		return s.wrap("ping", err)
	}

	return nil
}

// wrap classifies an SDK failure into the store error taxonomy.
func (s *DynamoStore) wrap(op string, err error) *StoreError {
	kind := ErrUnknown

	var throughput *dynamodbtypes.ProvisionedThroughputExceededException
	var requestLimit *dynamodbtypes.RequestLimitExceeded
	var internal *dynamodbtypes.InternalServerError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = ErrTimeout
	case errors.As(err, &throughput), errors.As(err, &requestLimit), errors.As(err, &internal):
		kind = ErrUnavailable
	}

	return &StoreError{Kind: kind, Op: op, Err: err}
}
