package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed bool

func (f fixed) Healthy(context.Context) bool { return bool(f) }

func TestCompositeHealthChecker(t *testing.T) {
	ctx := context.Background()

	assert.True(t, NewCompositeHealthChecker().Healthy(ctx))
	assert.True(t, NewCompositeHealthChecker(NewOkHealthChecker(), fixed(true)).Healthy(ctx))

	hc := NewCompositeHealthChecker(NewOkHealthChecker())
	hc.Add(fixed(false))
	assert.False(t, hc.Healthy(ctx))
}
