package opt

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Title     Value[string] `json:"title"`
	Attendees Value[int]    `json:"attendees"`
	Blocked   Value[bool]   `json:"blocked"`
}

func TestUnmarshalTracksPresence(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"attendees":0,"blocked":false,"title":null}`), &p))

	assert.False(t, p.Title.IsSet(), "null counts as omitted")
	v, ok := p.Attendees.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	assert.True(t, p.Blocked.IsSet())
}

func TestUnmarshalRejectsWrongType(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"attendees":"many"}`), &p))
}

func TestApplyAndOrElse(t *testing.T) {
	dst := "old"
	assert.False(t, Value[string]{}.Apply(&dst))
	assert.Equal(t, "old", dst)

	assert.True(t, Of("new").Apply(&dst))
	assert.Equal(t, "new", dst)

	assert.Equal(t, 7, Value[int]{}.OrElse(7))
	assert.Equal(t, 3, Of(3).OrElse(7))
}
