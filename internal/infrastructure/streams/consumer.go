package streams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
)

// Record is one document-level change event delivered to a Handler. Images
// are already converted to the dynamodb SDK's attribute values.
type Record struct {
	EventName string // INSERT, MODIFY or REMOVE
	Keys      map[string]dbtypes.AttributeValue
	OldImage  map[string]dbtypes.AttributeValue
	NewImage  map[string]dbtypes.AttributeValue
}

// Handler processes a single change record. An error triggers a bounded
// redelivery of the same record before the consumer moves on, so handlers
// must be idempotent per record.
type Handler func(ctx context.Context, rec Record) error

const (
	handlerAttempts = 3
	retryBackoff    = 2 * time.Second
	shardRefresh    = 30 * time.Second
)

// Consumer follows the change stream of a single DynamoDB table and invokes
// its handler once per record per shard. It discovers new shards as the
// stream rotates them and exits when the context is cancelled.
type Consumer struct {
	db      *dynamodb.Client
	streams *dynamodbstreams.Client
	table   string
	poll    time.Duration
	handler Handler
}

func NewConsumer(db *dynamodb.Client, sc *dynamodbstreams.Client, table string, poll time.Duration, h Handler) *Consumer {
	return &Consumer{db: db, streams: sc, table: table, poll: poll, handler: h}
}

// Run blocks until ctx is cancelled. It resolves the table's latest stream
// ARN, then keeps one polling goroutine per open shard.
func (c *Consumer) Run(ctx context.Context) error {
	arn, err := c.streamArn(ctx)
	if err != nil {
		return fmt.Errorf("resolve stream for table %s: %w", c.table, err)
	}
	slog.Info("following change stream", "table", c.table, "stream", arn)

	seen := map[string]bool{}
	ticker := time.NewTicker(shardRefresh)
	defer ticker.Stop()

	for {
		if err := c.spawnNewShards(ctx, arn, seen); err != nil {
			slog.Warn("describe stream failed", "table", c.table, "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Consumer) streamArn(ctx context.Context) (string, error) {
	out, err := c.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.table),
	})
	if err != nil {
		return "", err
	}
	if out.Table == nil || out.Table.LatestStreamArn == nil {
		return "", fmt.Errorf("table %s has no stream enabled", c.table)
	}
	return *out.Table.LatestStreamArn, nil
}

func (c *Consumer) spawnNewShards(ctx context.Context, arn string, seen map[string]bool) error {
	var lastShard *string
	for {
		out, err := c.streams.DescribeStream(ctx, &dynamodbstreams.DescribeStreamInput{
			StreamArn:             aws.String(arn),
			ExclusiveStartShardId: lastShard,
		})
		if err != nil {
			return err
		}
		if out.StreamDescription == nil {
			return nil
		}
		for _, shard := range out.StreamDescription.Shards {
			if shard.ShardId == nil || seen[*shard.ShardId] {
				continue
			}
			seen[*shard.ShardId] = true
			go c.pollShard(ctx, arn, *shard.ShardId)
		}
		lastShard = out.StreamDescription.LastEvaluatedShardId
		if lastShard == nil {
			return nil
		}
	}
}

// pollShard reads a shard from its oldest retained record until the shard is
// closed or the context ends. Starting at TRIM_HORIZON means a restart
// replays recent records; handlers tolerate that because intent creation is
// keyed deterministically.
func (c *Consumer) pollShard(ctx context.Context, arn, shardID string) {
	iterOut, err := c.streams.GetShardIterator(ctx, &dynamodbstreams.GetShardIteratorInput{
		StreamArn:         aws.String(arn),
		ShardId:           aws.String(shardID),
		ShardIteratorType: streamtypes.ShardIteratorTypeTrimHorizon,
	})
	if err != nil {
		slog.Warn("get shard iterator failed", "table", c.table, "shard", shardID, "err", err)
		return
	}
	iterator := iterOut.ShardIterator

	for iterator != nil {
		select {
		case <-ctx.Done():
			return
		default:
		}

		out, err := c.streams.GetRecords(ctx, &dynamodbstreams.GetRecordsInput{
			ShardIterator: iterator,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			slog.Warn("get records failed", "table", c.table, "shard", shardID, "err", err)
			if !sleep(ctx, c.poll) {
				return
			}
			continue
		}

		for _, rec := range out.Records {
			c.deliver(ctx, rec)
		}

		iterator = out.NextShardIterator
		if len(out.Records) == 0 {
			if !sleep(ctx, c.poll) {
				return
			}
		}
	}
	slog.Info("shard closed", "table", c.table, "shard", shardID)
}

// deliver invokes the handler with bounded retries. A record that keeps
// failing is logged and dropped rather than wedging the shard.
func (c *Consumer) deliver(ctx context.Context, rec streamtypes.Record) {
	if rec.Dynamodb == nil {
		return
	}
	r := Record{
		EventName: string(rec.EventName),
		Keys:      fromStreamImage(rec.Dynamodb.Keys),
		OldImage:  fromStreamImage(rec.Dynamodb.OldImage),
		NewImage:  fromStreamImage(rec.Dynamodb.NewImage),
	}
	var err error
	for attempt := 1; attempt <= handlerAttempts; attempt++ {
		if err = c.handler(ctx, r); err == nil {
			return
		}
		slog.Warn("record handler failed", "table", c.table, "event", r.EventName, "attempt", attempt, "err", err)
		if attempt < handlerAttempts && !sleep(ctx, retryBackoff) {
			return
		}
	}
	slog.Error("record dropped after retries", "table", c.table, "event", r.EventName, "err", err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
