package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vqdung71104/student-management-sub001/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "student_management", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=student_management sslmode=disable", dsn)
}
