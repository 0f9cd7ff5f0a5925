// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	redisstore "github.com/taibuivan/vidora/internal/platform/redis"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		parts     []string
		want      string
	}{
		{name: "namespace with trailing separator", namespace: "vidora:view:", parts: []string{"v1", "u1"}, want: "vidora:view:v1:u1"},
		{name: "bare namespace", namespace: "vidora:view", parts: []string{"v1", "u1"}, want: "vidora:view:v1:u1"},
		{name: "empty part keeps its slot", namespace: "vidora:view", parts: []string{"v1", ""}, want: "vidora:view:v1:"},
		{name: "namespace only", namespace: "vidora", want: "vidora"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redisstore.Key(tt.namespace, tt.parts...))
		})
	}
}
