package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x742d...f44e",
		FormatAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e"))
	assert.Equal(t, "0x1234abcd", FormatAddress("0x1234abcd"), "short addresses pass through")
	assert.Equal(t, "", FormatAddress(""))
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Mar 15, 2024 09:30", FormatTimestamp("2024-03-15T09:30:00Z"))
	assert.Equal(t, "Dec 31, 2023 23:59", FormatTimestamp("2023-12-31T23:59:59.000Z"))
	assert.Equal(t, "not-a-date", FormatTimestamp("not-a-date"), "unparsable values pass through")
	assert.Equal(t, "", FormatTimestamp(""))
}
