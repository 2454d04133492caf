package sqsadapter

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"contentflow/contexts/content-studio/media-optimizer/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu       sync.Mutex
	pending  []types.Message
	sent     []string
	deleted    []string
	received   int
	visibility int32
}

func (f *fakeQueue) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body := aws.ToString(params.MessageBody)
	f.sent = append(f.sent, body)
	id := "msg-" + string(rune('a'+len(f.sent)-1))
	f.pending = append(f.pending, types.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String("rh-" + id),
		Body:          aws.String(body),
	})
	return &sqs.SendMessageOutput{MessageId: aws.String(id)}, nil
}

func (f *fakeQueue) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	f.visibility = params.VisibilityTimeout
	if len(f.pending) > 0 {
		msg := f.pending[0]
		f.pending = f.pending[1:]
		f.received++
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: []types.Message{msg}}, nil
	}
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return &sqs.ReceiveMessageOutput{}, nil
	}
}

func (f *fakeQueue) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeQueue) lastVisibility() int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visibility
}

func (f *fakeQueue) deletedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

type collectingHandler struct {
	mu   sync.Mutex
	jobs []entities.OptimizationJob
}

func (h *collectingHandler) Handle(_ context.Context, job entities.OptimizationJob) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jobs = append(h.jobs, job)
}

func (h *collectingHandler) Jobs() []entities.OptimizationJob {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]entities.OptimizationJob(nil), h.jobs...)
}

func TestDispatcherSendsJobAsJSON(t *testing.T) {
	queue := &fakeQueue{}
	job := entities.OptimizationJob{ContentID: "content-1", ObjectKey: "teams/t/content/content-1/source.mp4", ContentType: "video/mp4"}

	require.NoError(t, NewDispatcher(queue, "https://sqs.local/jobs").Dispatch(context.Background(), job))
	require.Len(t, queue.sent, 1)

	var decoded entities.OptimizationJob
	require.NoError(t, json.Unmarshal([]byte(queue.sent[0]), &decoded))
	assert.Equal(t, job, decoded)
}

func TestConsumerHandlesAndDeletesEveryMessage(t *testing.T) {
	queue := &fakeQueue{}
	dispatcher := NewDispatcher(queue, "https://sqs.local/jobs")
	require.NoError(t, dispatcher.Dispatch(context.Background(), entities.OptimizationJob{ContentID: "content-1", ObjectKey: "k1"}))
	queue.pending = append(queue.pending, types.Message{
		MessageId:     aws.String("poison"),
		ReceiptHandle: aws.String("rh-poison"),
		Body:          aws.String("{not json"),
	})
	require.NoError(t, dispatcher.Dispatch(context.Background(), entities.OptimizationJob{ContentID: "content-2", ObjectKey: "k2"}))

	handler := &collectingHandler{}
	consumer := NewConsumer(context.Background(), queue, "https://sqs.local/jobs", handler, 2*time.Hour, nil)
	consumer.Start()

	require.Eventually(t, func() bool { return queue.deletedCount() == 3 }, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, consumer.Shutdown(ctx))

	jobs := handler.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "content-1", jobs[0].ContentID)
	assert.Equal(t, "content-2", jobs[1].ContentID)
	assert.Contains(t, queue.deleted, "rh-poison")
	assert.Equal(t, int32((2*time.Hour + 5*time.Minute).Seconds()), queue.lastVisibility())
}

func TestVisibilityTimeoutOutlastsJobTimeout(t *testing.T) {
	cases := []struct {
		jobTimeout time.Duration
		want       time.Duration
	}{
		{jobTimeout: 0, want: 35 * time.Minute},
		{jobTimeout: 10 * time.Minute, want: 15 * time.Minute},
		{jobTimeout: 90 * time.Minute, want: 95 * time.Minute},
		{jobTimeout: 48 * time.Hour, want: 12 * time.Hour},
	}
	for _, tc := range cases {
		got := VisibilityTimeout(tc.jobTimeout)
		assert.Equal(t, int32(tc.want.Seconds()), got, tc.jobTimeout.String())
		if tc.jobTimeout > 0 && tc.jobTimeout <= MaxJobTimeout {
			assert.Greater(t, time.Duration(got)*time.Second, tc.jobTimeout)
		}
	}
}
