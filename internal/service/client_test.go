package service

import (
	"testing"

	"brokerage_backoffice/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClientRoundTrip(t *testing.T) {
	db := newTestDB(t)

	created, err := CreateClient(db, "Northwind Asset Mgmt", "institutional")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := GetClientByID(db, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Northwind Asset Mgmt", fetched.Name)
	require.Equal(t, "institutional", fetched.Type)
	// The projection shape is attached even when empty
	require.Len(t, fetched.Users, 0)
	require.Nil(t, fetched.Account)
	require.Nil(t, fetched.AccountRep)
}

func TestGetClientByIDNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetClientByID(db, 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClientProjectionIncludesRelations(t *testing.T) {
	db := newTestDB(t)
	client, acct := seedClientAccount(t, db, 1000, 0, 0)
	member := seedUser(t, db, "member@acme.test", &client.ID)
	rep := seedUser(t, db, "rep@brokerage.test", nil)

	updated, err := UpdateClientByID(db, client.ID, client.Name, client.Type, &rep.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Account)
	require.Equal(t, acct.ID, updated.Account.ID)
	require.NotNil(t, updated.AccountRep)
	require.Equal(t, rep.ID, updated.AccountRep.ID)
	require.Len(t, updated.Users, 1)
	require.Equal(t, member.Email, updated.Users[0].Email)
	// The user projection carries contact fields only
	require.Empty(t, updated.Users[0].Password)
	require.Empty(t, updated.Users[0].Role)
}

func TestUpdateClientNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := UpdateClientByID(db, 404, "Ghost", "individual", nil)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteClientIdempotence(t *testing.T) {
	db := newTestDB(t)
	client := domain.Client{Name: "Short Lived", Type: "individual"}
	require.NoError(t, db.Create(&client).Error)

	require.NoError(t, DeleteClientByID(db, client.ID))
	// Second delete of the same id is NotFound, not success
	require.ErrorIs(t, DeleteClientByID(db, client.ID), gorm.ErrRecordNotFound)
}
