package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapEnvToGinMode(t *testing.T) {
	tests := map[string]string{
		"production":  "release",
		"prod":        "release",
		"release":     "release",
		"test":        "test",
		"testing":     "test",
		"development": "debug",
		"":            "debug",
	}
	for env, want := range tests {
		assert.Equal(t, want, MapEnvToGinMode(env), env)
	}
}

func TestOptions_ResolveEnv(t *testing.T) {
	opts := &Options{Env: "development"}

	t.Setenv("ENV", "")
	assert.Equal(t, "development", opts.ResolveEnv())

	t.Setenv("ENV", "production")
	assert.Equal(t, "production", opts.ResolveEnv())
}
