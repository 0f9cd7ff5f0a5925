// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidora/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "postgres://u:p@db:5432/vidora", want: "pgx5://u:p@db:5432/vidora"},
		{input: "postgresql://u:p@db/vidora?sslmode=disable", want: "pgx5://u:p@db/vidora?sslmode=disable"},
		{input: "pgx5://db/vidora", want: "pgx5://db/vidora"},
		{input: "host=db dbname=vidora", want: "host=db dbname=vidora"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.input), tt.input)
	}
}
