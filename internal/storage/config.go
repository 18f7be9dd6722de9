package storage

import (
	"fmt"
	"path"
	"strings"
)

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Enabled reports whether an endpoint is configured.
func (c *MinIOConfig) Enabled() bool {
	return c != nil && strings.TrimSpace(c.Endpoint) != ""
}

func (c *MinIOConfig) Validate() error {
	if !c.Enabled() {
		return fmt.Errorf("minio endpoint missing")
	}
	if c.Bucket == "" {
		return fmt.Errorf("minio bucket missing")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("minio credentials missing")
	}
	return nil
}

// ObjectKey names the stored original upload of a record.
func ObjectKey(kind, id, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return kind + "/" + id + "/" + name
}
