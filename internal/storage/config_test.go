package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinIOConfigValidate(t *testing.T) {
	var nilCfg *MinIOConfig
	assert.False(t, nilCfg.Enabled())

	cfg := &MinIOConfig{Endpoint: "localhost:9000", Bucket: "uploads", AccessKey: "a", SecretKey: "s"}
	assert.True(t, cfg.Enabled())
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&MinIOConfig{}).Validate())
	assert.Error(t, (&MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}).Validate())
	assert.Error(t, (&MinIOConfig{Endpoint: "localhost:9000", Bucket: "uploads"}).Validate())
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "resume/abc/cv.pdf", ObjectKey("resume", "abc", "cv.pdf"))
	assert.Equal(t, "resume/abc/cv.pdf", ObjectKey("resume", "abc", "../../cv.pdf"))
	assert.Equal(t, "job_description/abc/jd.txt", ObjectKey("job_description", "abc", `C:\tmp\jd.txt`))
	assert.Equal(t, "resume/abc/upload", ObjectKey("resume", "abc", ""))
}
