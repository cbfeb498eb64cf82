package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://app:s3cret@db:5432/bookrec", "postgres://***@db:5432/bookrec"},
		{"postgres://db:5432/bookrec", "postgres://db:5432/bookrec"},
		{"host=db user=app", "host=db user=app"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactDSN(tt.in))
	}
}
