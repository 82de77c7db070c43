package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-ledger/pkg/config"
)

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert product: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isForeignKeyViolation(unique))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}

func TestNullableHelpers(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", *nullable("x"))
	assert.Equal(t, "", deref(nil))
	assert.Nil(t, limitArg(0))
	assert.Equal(t, 10, *limitArg(10))
}

func TestPoolConfigFor(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: 5432, User: "ledger", Password: "p@ss", DBName: "retail", SSLMode: "disable", MaxConns: 1}

	pc, err := poolConfigFor(cfg)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "p@ss", pc.ConnConfig.Password)
	assert.Equal(t, "retail-ledger", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "10s", pc.ConnConfig.RuntimeParams["lock_timeout"])
	assert.NotNil(t, pc.AfterConnect)

	pc, err = poolConfigFor(config.DBConfig{DatabaseURL: "postgres://u:p@h:6543/x?application_name=worker"})
	assert.NoError(t, err)
	assert.Equal(t, int32(25), pc.MaxConns)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, "worker", pc.ConnConfig.RuntimeParams["application_name"])
}
