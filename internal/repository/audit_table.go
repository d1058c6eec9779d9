package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"coach-agent/internal/domain"
)

const (
	pkPrefixAudit = "AUDIT#"
	skPrefixEntry = "ENTRY#"
	dayLayout     = "2006-01-02"
	ttlDuration   = 30 * 24 * time.Hour // 30-day TTL
)

// dynamodbAPI is the minimal DynamoDB interface required by AuditTable.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// AuditTable mirrors interaction log entries into a DynamoDB table,
// partitioned by UTC day.
type AuditTable struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new AuditTable.
func New(api dynamodbAPI, tableName string) (*AuditTable, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &AuditTable{api: api, tableName: tableName}, nil
}

func (a *AuditTable) Name() string { return "dynamodb" }

// dayPK returns the partition key for all entries written on ts's UTC day.
func dayPK(ts time.Time) string {
	return pkPrefixAudit + ts.UTC().Format(dayLayout)
}

// entrySK orders entries within a day; the id keeps same-instant entries distinct.
func entrySK(ts time.Time, id string) string {
	return skPrefixEntry + ts.UTC().Format(time.RFC3339Nano) + "#" + id
}

// ttlValue returns a Unix timestamp 30 days after ts.
func ttlValue(ts time.Time) int64 {
	return ts.Add(ttlDuration).Unix()
}

// Write stores one entry. Entries are never overwritten.
func (a *AuditTable) Write(ctx context.Context, entry domain.AuditEntry) error {
	if entry.ID == "" {
		return errors.New("repository: Write: entry id is required")
	}
	if entry.Timestamp.IsZero() {
		return errors.New("repository: Write: entry timestamp is required")
	}

	_, err := a.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(a.tableName),
		Item:                entryItem(entry),
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("repository: Write: %w", err)
	}
	return nil
}

func entryItem(entry domain.AuditEntry) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: dayPK(entry.Timestamp)},
		"SK":        &types.AttributeValueMemberS{Value: entrySK(entry.Timestamp, entry.ID)},
		"entryId":   &types.AttributeValueMemberS{Value: entry.ID},
		"timestamp": &types.AttributeValueMemberS{Value: entry.Timestamp.UTC().Format(time.RFC3339Nano)},
		"user":      &types.AttributeValueMemberS{Value: entry.UserText},
		"assistant": &types.AttributeValueMemberS{Value: entry.AssistantText},
		"label":     &types.AttributeValueMemberS{Value: entry.Label},
		"reasoning": &types.AttributeValueMemberS{Value: entry.Reasoning},
		"fallback":  &types.AttributeValueMemberBOOL{Value: entry.Fallback},
		"ttl":       &types.AttributeValueMemberN{Value: strconv.FormatInt(ttlValue(entry.Timestamp), 10)},
	}
}
