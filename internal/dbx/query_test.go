package dbx

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", Placeholders(1, 0))
	assert.Equal(t, "$1", Placeholders(1, 1))
	assert.Equal(t, "$2, $3, $4", Placeholders(2, 3))
}

func TestNullString(t *testing.T) {
	assert.Nil(t, NullString(nil))
	s := "x"
	assert.Equal(t, "x", NullString(&s))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(sql.NullString{}))
	got := StringPtr(sql.NullString{String: "t1", Valid: true})
	if assert.NotNil(t, got) {
		assert.Equal(t, "t1", *got)
	}
}
