package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrdersCommand_MemoryStoreIsEmpty(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	var out bytes.Buffer
	ordersCmd.SetOut(&out)
	ordersCmd.SetContext(context.Background())
	require.NoError(t, ordersCmd.Flags().Set("last", "3"))

	require.NoError(t, runOrders(ordersCmd, nil))
	require.Equal(t, "📋 No orders yet.", strings.TrimSpace(out.String()))
}

func TestOrdersCommand_RejectsNonPositive(t *testing.T) {
	require.NoError(t, ordersCmd.Flags().Set("last", "0"))
	require.Error(t, runOrders(ordersCmd, nil))
}

func TestSetupLogging(t *testing.T) {
	setupLogging("debug", "development")
	setupLogging("nonsense", "production")
}
