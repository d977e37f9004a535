// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDOSTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want uint32
	}{
		{
			name: "packs fields",
			in:   time.Date(2024, time.March, 9, 12, 34, 56, 0, time.UTC),
			want: 1483301980,
		},
		{
			name: "odd seconds round down",
			in:   time.Date(2024, time.March, 9, 12, 34, 57, 0, time.UTC),
			want: 1483301980,
		},
		{
			name: "epoch",
			in:   time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC),
			want: 1<<21 | 1<<16,
		},
		{
			name: "before epoch clamps year",
			in:   time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
			want: 1<<21 | 1<<16,
		},
		{
			name: "converted to utc",
			in:   time.Date(2024, time.March, 9, 13, 34, 56, 0, time.FixedZone("CET", 3600)),
			want: 1483301980,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DOSTime(tt.in))
		})
	}
}

func TestVolume_TimestampRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2031, time.November, 30, 23, 59, 58, 0, time.UTC)
	v := &Volume{Header: NewHeader(DOSTime(at))}
	assert.True(t, v.Timestamp().Equal(at), "Timestamp() = %v, want %v", v.Timestamp(), at)
}
