package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"patentdesk/internal/port"
)

// MockScorer is a mock implementation of port.LikelihoodScorer.
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, input port.ScoreInput) (float64, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(float64), args.Error(1)
}
