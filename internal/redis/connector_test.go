package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

func fastOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    100 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), fastOptions(mr.Addr()), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnect_GivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	start := time.Now()
	_, err := Connect(context.Background(), fastOptions(addr), logger.NewNop())

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConnectOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
	}{
		{name: "missing addr", mutate: func(o *ConnectOptions) { o.Addr = "" }},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fastOptions("localhost:6379")
			tt.mutate(&opts)
			assert.Error(t, opts.validate())
		})
	}
}
