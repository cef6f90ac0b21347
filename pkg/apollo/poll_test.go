package apollo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements Client with function fields.
type mockClient struct {
	createList    func(ctx context.Context, req CreateListRequest) (*ListResponse, error)
	getListStatus func(ctx context.Context, id string) (*ListResponse, error)
	listContacts  func(ctx context.Context, id string, limit int) (*ContactsResponse, error)
}

func (m *mockClient) CreateList(ctx context.Context, req CreateListRequest) (*ListResponse, error) {
	return m.createList(ctx, req)
}

func (m *mockClient) GetListStatus(ctx context.Context, id string) (*ListResponse, error) {
	return m.getListStatus(ctx, id)
}

func (m *mockClient) ListContacts(ctx context.Context, id string, limit int) (*ContactsResponse, error) {
	return m.listContacts(ctx, id, limit)
}

func fastPolicy(attempts int) PollPolicy {
	return PollPolicy{MaxAttempts: attempts, Interval: time.Millisecond}
}

func TestPollListCompletes(t *testing.T) {
	calls := 0
	client := &mockClient{
		getListStatus: func(ctx context.Context, id string) (*ListResponse, error) {
			calls++
			if calls < 3 {
				return &ListResponse{ID: id, Status: "processing"}, nil
			}
			return &ListResponse{ID: id, Status: "completed", Total: 12}, nil
		},
	}

	result, err := PollList(context.Background(), client, "list-1", fastPolicy(10))
	require.NoError(t, err)
	assert.Equal(t, StateComplete, result.State)
	assert.Equal(t, 12, result.Total)
	assert.Equal(t, 3, result.Attempts)
}

func TestPollListFails(t *testing.T) {
	client := &mockClient{
		getListStatus: func(ctx context.Context, id string) (*ListResponse, error) {
			return &ListResponse{ID: id, Status: "FAILED"}, nil
		},
	}

	result, err := PollList(context.Background(), client, "list-1", fastPolicy(10))
	require.NoError(t, err)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, 1, result.Attempts)
}

func TestPollListExhaustsBudget(t *testing.T) {
	calls := 0
	client := &mockClient{
		getListStatus: func(ctx context.Context, id string) (*ListResponse, error) {
			calls++
			return &ListResponse{ID: id, Status: "queued"}, nil
		},
	}

	result, err := PollList(context.Background(), client, "list-1", fastPolicy(18))
	require.NoError(t, err)
	assert.Equal(t, StateTimeout, result.State)
	assert.Equal(t, "queued", result.Status)
	assert.Equal(t, 18, result.Attempts)
	assert.Equal(t, 18, calls, "one status call per attempt, no extra wait after the last")
}

func TestPollListPropagatesTransportError(t *testing.T) {
	client := &mockClient{
		getListStatus: func(ctx context.Context, id string) (*ListResponse, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := PollList(context.Background(), client, "list-1", fastPolicy(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll list list-1")
}

func TestPollListCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &mockClient{
		getListStatus: func(ctx context.Context, id string) (*ListResponse, error) {
			cancel()
			return &ListResponse{ID: id, Status: "pending"}, nil
		},
	}

	_, err := PollList(ctx, client, "list-1", PollPolicy{MaxAttempts: 5, Interval: time.Minute})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status string
		want   statusBucket
	}{
		{"complete", bucketComplete},
		{"Completed", bucketComplete},
		{"FINISHED", bucketComplete},
		{"done", bucketComplete},
		{"success", bucketComplete},
		{"failed", bucketFailed},
		{"Error", bucketFailed},
		{"canceled", bucketFailed},
		{"cancelled", bucketFailed},
		{"queued", bucketPending},
		{"processing", bucketPending},
		{"", bucketPending},
		{"something_new", bucketPending},
		{" complete ", bucketComplete},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyStatus(tt.status), "status %q", tt.status)
	}
}

func TestPollPolicyDefaults(t *testing.T) {
	p := PollPolicy{}.withDefaults()
	assert.Equal(t, 18, p.MaxAttempts)
	assert.Equal(t, 1500*time.Millisecond, p.Interval)

	p = DefaultPollPolicy()
	assert.Equal(t, 18, p.MaxAttempts)
	assert.Equal(t, 1500*time.Millisecond, p.Interval)
}
