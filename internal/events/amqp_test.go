package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/BudgetManager/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declaredExchange string
	declaredKind     string
	declareErr       error
	publishErr       error
	published        []amqp091.Publishing
	keys             []string
	closed           bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp091.Table) error {
	f.declaredExchange = name
	f.declaredKind = kind
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _ string, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newAMQPPublisher(ch, "budget.events", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "budget.events", ch.declaredExchange)
	assert.Equal(t, "topic", ch.declaredKind)

	budgetID, depositID := uuid.New(), uuid.New()
	require.NoError(t, p.Publish(context.Background(), New(DepositCreated, budgetID, depositID)))

	require.Len(t, ch.published, 1)
	assert.Equal(t, DepositCreated, ch.keys[0])
	assert.Equal(t, amqp091.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	var got Event
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, budgetID, got.BudgetID)
	assert.Equal(t, depositID, got.ResourceID)
}

func TestAMQPPublisher_LogsPublishedEvent(t *testing.T) {
	p, err := newAMQPPublisher(&fakeChannel{}, "budget.events", zerolog.Nop())
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(buf))
	require.NoError(t, p.Publish(ctx, New(DepositCreated, uuid.New(), uuid.New())))

	assert.Contains(t, buf.String(), "Published event")
	assert.Contains(t, buf.String(), `"event":"`+DepositCreated+`"`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestAMQPPublisher_DeclareFails(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}
	_, err := newAMQPPublisher(ch, "budget.events", zerolog.Nop())
	assert.Error(t, err)
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishFails(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := newAMQPPublisher(ch, "budget.events", zerolog.Nop())
	require.NoError(t, err)

	err = p.Publish(context.Background(), New(BudgetCreated, uuid.New(), uuid.New()))
	assert.ErrorContains(t, err, "channel closed")
}
