package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{"empty stays empty", "", ""},
		{"bare host gains https", "bj.bcebos.com", "https://bj.bcebos.com"},
		{"https preserved", "https://oss-cn-hangzhou.aliyuncs.com", "https://oss-cn-hangzhou.aliyuncs.com"},
		{"http preserved", "http://localhost:9000", "http://localhost:9000"},
		{"host with port gains https", "minio.internal:9000", "https://minio.internal:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeEndpoint(tt.endpoint))
		})
	}
}
