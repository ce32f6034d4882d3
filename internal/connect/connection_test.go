package connect

import (
	"testing"

	"github.com/joshua-takyi/happenings/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoDBDisconnectWithoutClient(t *testing.T) {
	MongoDBClient = nil
	assert.NoError(t, MongoDBDisconnect())
}

func TestCloudinaryCredentialsForcesHTTPS(t *testing.T) {
	cld, err := CloudinaryCredentials(&config.Config{
		CloudinaryCloudName: "demo",
		CloudinaryAPIKey:    "key",
		CloudinaryAPISecret: "secret",
	})
	require.NoError(t, err)
	assert.True(t, cld.Config.URL.Secure)
}
