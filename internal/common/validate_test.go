package common

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
	Method   string `json:"paymentMethod" validate:"omitempty,oneof=cash card"`
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(NewValidator(), samplePayload{Quantity: 0, Method: "gold"})
	appErr, ok := AsAppError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

	details := appErr.Details.(map[string]any)
	fields := details["fields"].(map[string]string)
	require.Equal(t, "required", fields["name"])
	require.Equal(t, "min=1", fields["quantity"])
	require.Equal(t, "oneof=cash card", fields["paymentMethod"])
}

func TestValidateStructPasses(t *testing.T) {
	require.NoError(t, ValidateStruct(NewValidator(), samplePayload{Name: "x", Quantity: 2}))
	require.NoError(t, ValidateStruct(nil, samplePayload{}))
}
