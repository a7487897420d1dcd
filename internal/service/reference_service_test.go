package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/service"
	"patentdesk/mocks"
)

var countries = []domain.ReferenceItem{
	{Kind: domain.RefCountry, Code: "TR", Name: "Turkey"},
	{Kind: domain.RefCountry, Code: "DE", Name: "Germany"},
}

func TestReference_LoadsOnce(t *testing.T) {
	repo := new(mocks.MockReferenceRepo)
	repo.On("List", mock.Anything, domain.RefCountry).Return(countries, nil).Once()
	svc := service.NewReferenceService(repo)

	first, err := svc.List(context.Background(), domain.RefCountry)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), domain.RefCountry)
	require.NoError(t, err)

	assert.Equal(t, countries, first)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestReference_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	repo := new(mocks.MockReferenceRepo)
	var loadErr error
	repo.On("List", mock.Anything, domain.RefCountry).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			select {
			case <-ctx.Done():
				loadErr = ctx.Err()
			case <-time.After(80 * time.Millisecond):
			}
		}).
		Return(countries, nil).Once()
	svc := service.NewReferenceService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.List(ctx, domain.RefCountry)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	items, err := svc.List(context.Background(), domain.RefCountry)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, countries, items)
	assert.NoError(t, loadErr)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestReference_ConcurrentCallersShareOneLoad(t *testing.T) {
	repo := new(mocks.MockReferenceRepo)
	repo.On("List", mock.Anything, domain.RefGender).
		After(50*time.Millisecond).
		Return([]domain.ReferenceItem{{Kind: domain.RefGender, Code: "F", Name: "Female"}}, nil)
	svc := service.NewReferenceService(repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := svc.List(context.Background(), domain.RefGender)
			assert.NoError(t, err)
			assert.Len(t, items, 1)
		}()
	}
	wg.Wait()

	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestReference_FailedLoadIsNotCached(t *testing.T) {
	repo := new(mocks.MockReferenceRepo)
	repo.On("List", mock.Anything, domain.RefCountry).Return(nil, errors.New("connection refused")).Once()
	repo.On("List", mock.Anything, domain.RefCountry).Return(countries, nil).Once()
	svc := service.NewReferenceService(repo)

	_, err := svc.List(context.Background(), domain.RefCountry)
	require.Error(t, err)

	items, err := svc.List(context.Background(), domain.RefCountry)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestReference_Invalidate(t *testing.T) {
	repo := new(mocks.MockReferenceRepo)
	repo.On("ListByParent", mock.Anything, domain.RefState, "TR").
		Return([]domain.ReferenceItem{{Kind: domain.RefState, Code: "34", Name: "Istanbul", ParentCode: "TR"}}, nil)
	svc := service.NewReferenceService(repo)

	_, err := svc.ListStates(context.Background(), " tr ")
	require.NoError(t, err)
	_, err = svc.ListStates(context.Background(), "TR")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListByParent", 1)

	svc.Invalidate(domain.RefState)
	_, err = svc.ListStates(context.Background(), "TR")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListByParent", 2)
}

func TestReference_UnknownKind(t *testing.T) {
	svc := service.NewReferenceService(new(mocks.MockReferenceRepo))

	_, err := svc.List(context.Background(), "planets")
	assert.ErrorIs(t, err, domain.ErrInvalidReferenceKind)

	_, err = svc.ListStates(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
