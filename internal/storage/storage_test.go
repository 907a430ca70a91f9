package storage

import (
	"path"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"propapi/internal/config"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("leases", "lease-1", "Signed Lease.PDF")

	assert.True(t, strings.HasPrefix(key, "leases/lease-1/"))
	assert.Equal(t, ".pdf", path.Ext(key))

	base := strings.TrimSuffix(path.Base(key), ".pdf")
	_, err := uuid.Parse(base)
	assert.NoError(t, err)

	assert.NotEqual(t, key, ObjectKey("leases", "lease-1", "Signed Lease.PDF"))
}

func TestObjectKey_NoExtension(t *testing.T) {
	key := ObjectKey("maintenance", "req-9", "photo")
	assert.Equal(t, "", path.Ext(key))
	assert.True(t, strings.HasPrefix(key, "maintenance/req-9/"))
}

func TestNewMinIO_Validation(t *testing.T) {
	_, err := NewMinIO(minioConfig("", "ak", "sk", "bucket"))
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = NewMinIO(minioConfig("localhost:9000", "", "sk", "bucket"))
	assert.ErrorContains(t, err, "credentials are required")

	_, err = NewMinIO(minioConfig("localhost:9000", "ak", "sk", ""))
	assert.ErrorContains(t, err, "bucket is required")
}

func minioConfig(endpoint, access, secret, bucket string) config.MinIOConfig {
	return config.MinIOConfig{Endpoint: endpoint, AccessKey: access, SecretKey: secret, Bucket: bucket}
}
