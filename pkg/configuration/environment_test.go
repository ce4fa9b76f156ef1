package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocaleCodes(t *testing.T) {
	c := &Configuration{Locales: "en, pt ,sw,,"}
	assert.Equal(t, []string{"en", "pt", "sw"}, c.LocaleCodes())
}

func TestConnectionString(t *testing.T) {
	d := &DatabaseOptions{
		Name: "contentrepo", Host: "db", Port: "5433", User: "cr", Password: "secret",
	}
	assert.Equal(t,
		"host=db port=5433 user=cr dbname=contentrepo password=secret sslmode=disable",
		d.ConnectionString(),
	)
}
