package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"estateadmin/models"
)

func TestBuildTopNavData(t *testing.T) {
	data := BuildTopNavData(models.Session{User: models.User{Username: "admin"}}, "/project")
	assert.Equal(t, "admin", data.Username)
	if assert.Len(t, data.Links, 1) {
		assert.True(t, data.Links[0].Active)
	}

	data = BuildTopNavData(models.Session{}, "/login")
	assert.False(t, data.Links[0].Active)
}
