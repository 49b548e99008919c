package validator

import (
	"net/url"
	"testing"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusRequest struct {
	Status string `json:"status" validate:"required,record_status"`
}

type listRequest struct {
	Variant string `validate:"required,variant"`
	Limit   int    `validate:"min=0,max=200"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(statusRequest{Status: "approved"}))
	require.NoError(t, v.Struct(listRequest{Variant: "supplier", Limit: 20}))

	err := v.Struct(statusRequest{})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "status is required")

	err = v.Struct(statusRequest{Status: "archived"})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "status is not a valid record_status")

	err = v.Struct(listRequest{Variant: "builder", Limit: 500})
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "variant is not a valid variant")
	assert.Contains(t, err.Error(), "limit must be at most 200")
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{name: "absent", query: "", want: 50},
		{name: "plain", query: "limit=20", want: 20},
		{name: "leading zero is decimal", query: "limit=010", want: 10},
		{name: "eight with leading zero", query: "limit=08", want: 8},
		{name: "negative", query: "limit=-1", want: -1},
		{name: "hex", query: "limit=0x10", wantErr: true},
		{name: "word", query: "limit=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := QueryInt(query, "limit", 50)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
