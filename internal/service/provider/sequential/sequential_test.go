package sequential

import (
	"context"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_Next(t *testing.T) {
	t.Parallel()

	p1, p2 := console.NewProvider(), console.NewProvider()
	builder := NewSelectorBuilder([]provider.Provider{p1, p2})

	s, err := builder.Build()
	require.NoError(t, err)

	got, err := s.Next(context.Background(), domain.Message{})
	require.NoError(t, err)
	assert.Same(t, p1, got)
	got, err = s.Next(context.Background(), domain.Message{})
	require.NoError(t, err)
	assert.Same(t, p2, got)
	_, err = s.Next(context.Background(), domain.Message{})
	assert.ErrorIs(t, err, errs.ErrNoAvailableProvider)

	// 每次 Build 都从头开始
	s, err = builder.Build()
	require.NoError(t, err)
	got, err = s.Next(context.Background(), domain.Message{})
	require.NoError(t, err)
	assert.Same(t, p1, got)
}

func TestSelectorBuilder_Empty(t *testing.T) {
	t.Parallel()
	_, err := NewSelectorBuilder(nil).Build()
	assert.ErrorIs(t, err, errs.ErrNoAvailableProvider)
}
