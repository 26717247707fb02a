package address

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhBui2k4/CDTT/internal/api"
	"github.com/MinhBui2k4/CDTT/internal/apitest"
	"github.com/MinhBui2k4/CDTT/internal/session"
)

func TestAddress_Line(t *testing.T) {
	a := Address{Street: "12 Le Loi", Ward: " ", District: "District 1", City: "Ho Chi Minh City"}
	assert.Equal(t, "12 Le Loi, District 1, Ho Chi Minh City", a.Line())
	assert.Empty(t, Address{}.Line())
}

func TestService_Get(t *testing.T) {
	backend := apitest.NewBackend(t)
	backend.JSON(http.MethodGet, "/users/addresses/3", http.StatusOK, Address{ID: 3, City: "Hanoi"})
	sess := session.New(apitest.Token, []string{session.AdminRole}, apitest.Email, 1)

	got, err := NewService(backend.Client()).Get(context.Background(), sess, 3)
	require.NoError(t, err)
	assert.Equal(t, "Hanoi", got.City)
	assert.Equal(t, "Bearer "+apitest.Token, backend.CallsTo(http.MethodGet, "/users/addresses/3")[0].Auth)
}

func TestService_ListWithoutTokenNeverCalls(t *testing.T) {
	backend := apitest.NewBackend(t)
	_, err := NewService(backend.Client()).List(context.Background(), nil)
	assert.ErrorIs(t, err, api.ErrMissingToken)
	assert.Empty(t, backend.Calls())
}
