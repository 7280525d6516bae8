package aggregator

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

// MockAggregatorClient is a mock implementation of the AggregatorClient
type MockAggregatorClient struct {
	mock.Mock
}

// SendTask mocks the SendTask method
func (m *MockAggregatorClient) SendTask(ctx context.Context, task *types.SignedTask) (*SubmissionResult, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SubmissionResult), args.Error(1)
}

// Close mocks the Close method
func (m *MockAggregatorClient) Close() {
	m.Called()
}

// MockAggregatorClientBuilder provides a fluent interface for building mock aggregator clients
type MockAggregatorClientBuilder struct {
	client *MockAggregatorClient
}

func NewMockAggregatorClientBuilder() *MockAggregatorClientBuilder {
	return &MockAggregatorClientBuilder{
		client: &MockAggregatorClient{},
	}
}

// ExpectSendTask sets up an expectation for a SendTask call with a specific task
func (b *MockAggregatorClientBuilder) ExpectSendTask(ctx context.Context, task *types.SignedTask, result *SubmissionResult, err error) *MockAggregatorClientBuilder {
	b.client.On("SendTask", ctx, task).Return(result, err)
	return b
}

// ExpectSendTaskAny sets up an expectation for any SendTask call
func (b *MockAggregatorClientBuilder) ExpectSendTaskAny(result *SubmissionResult, err error) *MockAggregatorClientBuilder {
	b.client.On("SendTask", mock.Anything, mock.Anything).Return(result, err)
	return b
}

func (b *MockAggregatorClientBuilder) ExpectClose() *MockAggregatorClientBuilder {
	b.client.On("Close").Return()
	return b
}

func (b *MockAggregatorClientBuilder) Build() *MockAggregatorClient {
	return b.client
}

func (b *MockAggregatorClientBuilder) AssertExpectations(t mock.TestingT) bool {
	return b.client.AssertExpectations(t)
}

func (b *MockAggregatorClientBuilder) AssertNumberOfCalls(t mock.TestingT, methodName string, expectedCalls int) bool {
	return b.client.AssertNumberOfCalls(t, methodName, expectedCalls)
}

// NewNoOpAggregatorClient accepts every task with a `true` result.
func NewNoOpAggregatorClient() *MockAggregatorClient {
	client := &MockAggregatorClient{}
	client.On("SendTask", mock.Anything, mock.Anything).Return(&SubmissionResult{Result: json.RawMessage("true"), StatusCode: 200}, nil)
	client.On("Close").Return()
	return client
}

// NewFailingAggregatorClient creates an aggregator client that always fails
func NewFailingAggregatorClient(err error) *MockAggregatorClient {
	client := &MockAggregatorClient{}
	client.On("SendTask", mock.Anything, mock.Anything).Return(nil, err)
	client.On("Close").Return()
	return client
}

func NewMockAggregatorClientConfig() AggregatorClientConfig {
	return AggregatorClientConfig{
		AggregatorRPCUrl: "http://localhost:9007",
		RequestTimeout:   defaultRequestTimeout,
	}
}
