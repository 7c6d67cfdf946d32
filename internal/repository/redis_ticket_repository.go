package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/filedrop/internal/domain"
)

// Redis scripts run atomically per key, which gives the same conditional-write
// guarantee the Postgres backend gets from a single UPDATE statement.
var (
	createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1],
  'id', ARGV[1],
  'state', ARGV[2],
  'original_name', ARGV[3],
  'content_type', ARGV[4],
  'size_bytes', ARGV[5],
  'created_at', ARGV[6])
return 1
`)

	consumeScript = redis.NewScript(`
local state = redis.call('HGET', KEYS[1], 'state')
if state ~= ARGV[1] then
  return false
end
redis.call('HSET', KEYS[1], 'state', ARGV[2], 'consumed_at', ARGV[3])
return redis.call('HGETALL', KEYS[1])
`)
)

type redisTicketRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisTicketRepository instantiates the Redis-backed repository. prefix is
// the configured metadata namespace identifier.
func NewRedisTicketRepository(client *redis.Client, prefix string) TicketRepository {
	return &redisTicketRepository{client: client, prefix: prefix}
}

func (r *redisTicketRepository) key(id string) string {
	return r.prefix + ":" + id
}

func (r *redisTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	ticket.CreatedAt = time.Now().UTC()
	created, err := createScript.Run(ctx, r.client, []string{r.key(ticket.ID)},
		ticket.ID,
		string(ticket.State),
		ticket.OriginalName,
		ticket.ContentType,
		ticket.SizeBytes,
		ticket.CreatedAt.Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return ErrTicketExists
	}
	return nil
}

func (r *redisTicketRepository) Consume(ctx context.Context, id string) (*domain.Ticket, error) {
	result, err := consumeScript.Run(ctx, r.client, []string{r.key(id)},
		string(domain.TicketStateActive),
		string(domain.TicketStateConsumed),
		time.Now().UTC().Format(time.RFC3339Nano),
	).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTicketUnavailable
		}
		return nil, err
	}
	fields, ok := result.([]interface{})
	if !ok {
		return nil, errors.New("unexpected reply from consume script")
	}
	return ticketFromReply(fields)
}

func (r *redisTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	values, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrTicketNotFound
	}
	return ticketFromMap(values)
}

func ticketFromReply(fields []interface{}) (*domain.Ticket, error) {
	values := make(map[string]string, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		field, _ := fields[i].(string)
		value, _ := fields[i+1].(string)
		values[field] = value
	}
	return ticketFromMap(values)
}

func ticketFromMap(values map[string]string) (*domain.Ticket, error) {
	size, err := strconv.ParseInt(values["size_bytes"], 10, 64)
	if err != nil {
		return nil, errors.New("corrupt size_bytes field")
	}
	ticket := &domain.Ticket{
		ID:           values["id"],
		State:        domain.TicketState(values["state"]),
		OriginalName: values["original_name"],
		ContentType:  values["content_type"],
		SizeBytes:    size,
	}
	if raw := values["created_at"]; raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			ticket.CreatedAt = ts
		}
	}
	if raw := values["consumed_at"]; raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			ticket.ConsumedAt = &ts
		}
	}
	return ticket, nil
}
