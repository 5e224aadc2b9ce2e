package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_AddFavourite(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		valid   bool
	}{
		{"complete body", `{"title":"Docs","url":"go.dev"}`, true},
		{"missing title", `{"url":"go.dev"}`, false},
		{"missing url", `{"title":"Docs"}`, false},
		{"empty title", `{"title":"","url":"go.dev"}`, false},
		{"unknown field", `{"title":"Docs","url":"go.dev","extra":1}`, false},
		{"not json", `{"title":`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(AddFavouriteRequest, []byte(tt.payload))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateJSON_UpdateFavourite(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		valid   bool
	}{
		{"title only", `{"title":"New","oldUrl":"https://a.com/"}`, true},
		{"url only", `{"url":"b.com","oldUrl":"https://a.com/"}`, true},
		{"both fields", `{"title":"New","url":"b.com","oldUrl":"https://a.com/"}`, true},
		{"missing oldUrl", `{"title":"New"}`, false},
		{"neither title nor url", `{"oldUrl":"https://a.com/"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(UpdateFavouriteRequest, []byte(tt.payload))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateJSON_ReorderFavourites(t *testing.T) {
	err := ValidateJSON(ReorderFavouritesRequest, []byte(`{"updatedFavourites":[{"url":"https://a.com/","order":0}]}`))
	assert.NoError(t, err)

	err = ValidateJSON(ReorderFavouritesRequest, []byte(`{"updatedFavourites":[]}`))
	assert.Error(t, err, "empty batch is rejected by the contract")

	err = ValidateJSON(ReorderFavouritesRequest, []byte(`{"updatedFavourites":[{"url":"https://a.com/","order":-1}]}`))
	assert.Error(t, err, "negative order is rejected by the contract")
}

func TestValidateJSON_SetBookmark(t *testing.T) {
	require.NoError(t, ValidateJSON(SetBookmarkRequest, []byte(`{"fileKey":"key-1"}`)))
	assert.Error(t, ValidateJSON(SetBookmarkRequest, []byte(`{"fileKey":""}`)))
	assert.Error(t, ValidateJSON(SetBookmarkRequest, []byte(`{}`)))
}

func TestValidateJSON_UnknownContract(t *testing.T) {
	err := ValidateJSON("no-such-contract", []byte(`{}`))
	assert.Error(t, err)
}
