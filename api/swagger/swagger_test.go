package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocRegistered(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Info  struct{ Title string }         `json:"info"`
		Paths map[string]map[string]struct{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "University Payroll API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/salaries/{id}/calculate"], "post")
	assert.Contains(t, doc.Paths["/salaries/{id}/review"], "post")
	assert.Contains(t, doc.Paths["/rate-settings/applicable"], "get")
}
