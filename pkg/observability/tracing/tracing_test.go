/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package tracing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	t.Run("Provider NONE", func(t *testing.T) {
		shutdown, tp, err := Initialize(&Config{ServiceName: "service1"})
		require.NoError(t, err)
		require.NotNil(t, shutdown)
		require.NotNil(t, tp.Tracer(TracerName))
		require.NotPanics(t, shutdown)
	})

	t.Run("Provider STDOUT", func(t *testing.T) {
		shutdown, tp, err := Initialize(&Config{Provider: ProviderStdout, ServiceName: "service1"})
		require.NoError(t, err)
		require.NotNil(t, shutdown)
		require.NotNil(t, tp)
		require.NotPanics(t, shutdown)
	})

	t.Run("Provider JAEGER with collector URL", func(t *testing.T) {
		shutdown, tp, err := Initialize(&Config{
			Provider:     ProviderJaeger,
			ServiceName:  "service1",
			CollectorURL: "http://localhost:14268/api/traces",
		})
		require.NoError(t, err)
		require.NotNil(t, tp)
		require.NotPanics(t, shutdown)
	})

	t.Run("Provider JAEGER from environment", func(t *testing.T) {
		t.Setenv(JaegerAgentEndpointEnvKey, "localhost")

		shutdown, tp, err := Initialize(&Config{Provider: ProviderJaeger, ServiceName: "service1"})
		require.NoError(t, err)
		require.NotNil(t, tp)
		require.NotPanics(t, shutdown)
	})

	t.Run("Provider JAEGER without endpoint", func(t *testing.T) {
		t.Setenv(JaegerAgentEndpointEnvKey, "")
		t.Setenv(JaegerCollectorEndpointEnvKey, "")

		shutdown, tp, err := Initialize(&Config{Provider: ProviderJaeger, ServiceName: "service1"})
		require.ErrorContains(t, err, "neither agent nor collector endpoint is provided")
		require.Nil(t, shutdown)
		require.Nil(t, tp)
	})

	t.Run("Unsupported provider", func(t *testing.T) {
		shutdown, tp, err := Initialize(&Config{Provider: "unsupported", ServiceName: "service1"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported exporter type")
		require.Nil(t, shutdown)
		require.Nil(t, tp)
	})
}

func TestIsProviderSupported(t *testing.T) {
	require.True(t, IsProviderSupported(""))
	require.True(t, IsProviderSupported("STDOUT"))
	require.True(t, IsProviderSupported("JAEGER"))
	require.False(t, IsProviderSupported("unsupported"))
}
