package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/todo-api/internal/config"
)

func TestPostgresDSN_DefaultPort(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBUser: "todo", DBPassword: "pw", DBName: "todoapp"}

	assert.Equal(t, "host=db port=5432 user=todo password=pw dbname=todoapp sslmode=disable", postgresDSN(cfg))

	cfg.DBPort = "6543"
	assert.Contains(t, postgresDSN(cfg), "port=6543")
}

func TestMySQLDSN_DefaultPort(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBUser: "todo", DBPassword: "pw", DBName: "todoapp"}

	assert.Equal(t, "todo:pw@tcp(db:3306)/todoapp?charset=utf8mb4&parseTime=True&loc=UTC", mysqlDSN(cfg))

	cfg.DBPort = "3307"
	assert.Contains(t, mysqlDSN(cfg), "tcp(db:3307)")
}

func TestDSN_DatabaseURLWins(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "postgresql://u:p@h:5432/d", DBPort: "1"}
	assert.Equal(t, "postgresql://u:p@h:5432/d", postgresDSN(cfg))

	cfg.DatabaseURL = "mysql://u:p@tcp(h:3306)/d"
	assert.Equal(t, "u:p@tcp(h:3306)/d", mysqlDSN(cfg))
}
