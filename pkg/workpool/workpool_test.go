package workpool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsResultsInOrder(t *testing.T) {
	tasks := make([]Task[int], 10)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) (int, error) {
			return i * i, nil
		}
	}
	results := Run(context.Background(), nil, 4, tasks)
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i*i, r.Value)
		assert.NoError(t, r.Err)
	}
}

func TestRunRetriesFailedTaskSynchronously(t *testing.T) {
	attempts := 0
	tasks := []Task[string]{
		func(ctx context.Context) (string, error) {
			attempts++
			if attempts == 1 {
				return "", errors.New("transient failure")
			}
			return "ok", nil
		},
	}
	results := Run(context.Background(), nil, 1, tasks)
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].Value)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 2, attempts)
}

func TestRunRecoversPanickingTask(t *testing.T) {
	tasks := []Task[int]{
		func(ctx context.Context) (int, error) {
			panic("boom")
		},
	}
	results := Run(context.Background(), nil, 1, tasks)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestRunHandlesEmptyTaskList(t *testing.T) {
	results := Run[int](context.Background(), nil, 4, nil)
	assert.Empty(t, results)
}
