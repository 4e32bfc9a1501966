package dataset

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockSource(t *testing.T) (*PostgresSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSource(sqlx.NewDb(db, "sqlmock"), DefaultTables(), 0), mock
}

func TestPostgresSource_Load(t *testing.T) {
	source, mock := mockSource(t)

	mock.ExpectQuery(`SELECT \* FROM "soc_dem"`).WillReturnRows(
		sqlmock.NewRows([]string{"Client", "Sex"}).
			AddRow(int64(1), "M").
			AddRow(int64(2), nil))
	mock.ExpectQuery(`SELECT \* FROM "products_actbalance"`).WillReturnRows(
		sqlmock.NewRows([]string{"Client", "Count_CA", "ActBal_CA"}).
			AddRow(int64(1), int64(2), 150.5).
			AddRow(int64(2), nil, nil))
	mock.ExpectQuery(`SELECT \* FROM "inflow_outflow"`).WillReturnRows(
		sqlmock.NewRows([]string{"Client", "VolumeCred"}).
			AddRow(int64(1), []byte("500")))

	rel, err := source.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, rel.Demographics, 2)
	assert.Equal(t, Demographic{Client: 1, Sex: "M"}, rel.Demographics[0])
	assert.Equal(t, "", rel.Demographics[1].Sex)

	require.Len(t, rel.Balances, 2)
	assert.Equal(t, 2.0, rel.Balances[0].Values["Count_CA"])
	assert.Equal(t, 150.5, rel.Balances[0].Values["ActBal_CA"])
	_, present := rel.Balances[1].Values["Count_CA"]
	assert.False(t, present, "NULL reads as missing")

	require.Len(t, rel.Flows, 1)
	assert.Equal(t, 500.0, rel.Flows[0].Values["VolumeCred"])
}

func TestPostgresSource_QueryFailure(t *testing.T) {
	source, mock := mockSource(t)
	mock.ExpectQuery(`SELECT \* FROM "soc_dem"`).WillReturnError(fmt.Errorf("boom"))

	_, err := source.Load(context.Background())
	assert.Error(t, err)
}
