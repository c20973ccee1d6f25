package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/standin/internal/adapters/telemetry"
	"go.trai.ch/standin/internal/app"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports/mocks"
	"go.trai.ch/standin/internal/engine/cache"
	"go.trai.ch/standin/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

func newTestComponents(t *testing.T) *app.Components {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	cfg := &domain.Settings{}
	store := cache.NewStore(t.TempDir(), t.TempDir(), log)
	res := resolver.New(
		store,
		mocks.NewMockDisassembler(ctrl),
		mocks.NewMockAssembler(ctrl),
		mocks.NewMockCompiler(ctrl),
		mocks.NewMockDecompiler(ctrl),
		log,
		telemetry.NewNoOpTracer(),
		cfg,
	)

	return &app.Components{
		App:    app.New(store, res, mocks.NewMockWatcher(ctrl), log),
		Logger: log,
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components := newTestComponents(t)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	components := newTestComponents(t)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"resolve", "no-such-target"}, stderr, provider)
	assert.Equal(t, 1, exitCode)
}
