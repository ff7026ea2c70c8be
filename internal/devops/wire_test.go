package devops

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		raw     string
		display string
		handle  string
		uuid    uuid.UUID
		isNil   bool
	}{
		{"identity ref", `{"id":"` + id.String() + `","displayName":"Ada Lovelace","uniqueName":"ada@example.com"}`, "Ada Lovelace", "ada@example.com", id, false},
		{"ref without id", `{"displayName":"Ada","uniqueName":"ada@example.com"}`, "Ada", "ada@example.com", uuid.Nil, false},
		{"legacy string", `"Ada Lovelace <ada@example.com>"`, "Ada Lovelace", "ada@example.com", uuid.Nil, false},
		{"ref without handle", `{"displayName":"Ada"}`, "", "", uuid.Nil, true},
		{"legacy without handle", `"Ada Lovelace"`, "", "", uuid.Nil, true},
		{"null", `null`, "", "", uuid.Nil, true},
		{"number", `42`, "", "", uuid.Nil, true},
		{"empty", ``, "", "", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseIdentity(json.RawMessage(tt.raw))
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.display, got.DisplayName)
			assert.Equal(t, tt.handle, got.UniqueName)
			assert.Equal(t, tt.uuid, got.ID)
		})
	}
}

func TestRevisionPayload_ToDomain(t *testing.T) {
	raw := `{"rev":3,"fields":{
		"System.ChangedDate":"2025-06-11T23:59:59.997Z",
		"System.ChangedBy":{"displayName":"Ada","uniqueName":"ada@example.com"},
		"Microsoft.VSTS.Scheduling.CompletedWork":2.25,
		"System.Title":"Fix login"}}`

	var p revisionPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	rev := p.toDomain()

	assert.Equal(t, 3, rev.Rev)
	assert.Equal(t, 11, rev.ChangedDate.Day())
	require.NotNil(t, rev.CompletedWork)
	assert.Equal(t, 2.25, *rev.CompletedWork)
	require.NotNil(t, rev.Title)
	assert.Equal(t, "Fix login", *rev.Title)
	assert.NoError(t, rev.Validate(1))
}
