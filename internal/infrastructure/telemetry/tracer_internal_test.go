package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

func TestNewSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), newSampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), newSampler(0.25).Description())
}

func TestNewResource(t *testing.T) {
	res, err := newResource(Config{ServiceName: "ralph-pricing", Environment: "production"})
	require.NoError(t, err)

	values := map[string]string{}
	for _, kv := range res.Attributes() {
		values[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "ralph-pricing", values[string(semconv.ServiceNameKey)])
	assert.Equal(t, "dev", values[string(semconv.ServiceVersionKey)])
	assert.Equal(t, "production", values[string(semconv.DeploymentEnvironmentNameKey)])
}
