package refmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRefMap = `{
	"mappings": {
		"com.example.mixin.MixinWorld": {
			"field_72995_K": "world.isRemote",
			"func_72838_d": "world.spawnEntity"
		},
		"com.example.mixin.MixinEntity": {
			"field_72995_K": "entity.remote"
		}
	}
}`

func TestRead(t *testing.T) {
	mapper, err := Read(strings.NewReader(sampleRefMap))
	require.NoError(t, err)
	assert.False(t, mapper.IsDefault())

	tests := []struct {
		name      string
		unitClass string
		reference string
		want      string
	}{
		{
			name:      "known reference",
			unitClass: "com.example.mixin.MixinWorld",
			reference: "field_72995_K",
			want:      "world.isRemote",
		},
		{
			name:      "per unit mappings are independent",
			unitClass: "com.example.mixin.MixinEntity",
			reference: "field_72995_K",
			want:      "entity.remote",
		},
		{
			name:      "unknown reference passes through",
			unitClass: "com.example.mixin.MixinWorld",
			reference: "func_00000_x",
			want:      "func_00000_x",
		},
		{
			name:      "unknown unit passes through",
			unitClass: "com.example.mixin.MixinOther",
			reference: "field_72995_K",
			want:      "field_72995_K",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper.Remap(tt.unitClass, tt.reference))
		})
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	mapper := Default()

	assert.True(t, mapper.IsDefault())
	assert.Equal(t, "anything", mapper.Remap("some.Unit", "anything"))
}
