package dto_test

import (
	"testing"

	"github.com/SscSPs/bank_backoffice_api/internal/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTransactionsParams_Normalize(t *testing.T) {
	p := dto.ListTransactionsParams{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = dto.ListTransactionsParams{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, dto.MaxLimit, p.Limit)
	assert.Equal(t, 200, p.Offset())

	p = dto.ListTransactionsParams{Page: 922337203685477582, Limit: 10}.Normalize()
	assert.Equal(t, dto.MaxPage, p.Page)
	assert.Equal(t, (dto.MaxPage-1)*10, p.Offset())
}

func TestListTransactionsParams_PageBinding(t *testing.T) {
	require.NoError(t, dto.RegisterValidators())

	assert.NoError(t, binding.Validator.ValidateStruct(dto.ListTransactionsParams{Page: dto.MaxPage, Limit: 100}))
	assert.Error(t, binding.Validator.ValidateStruct(dto.ListTransactionsParams{Page: dto.MaxPage + 1}))
	assert.Error(t, binding.Validator.ValidateStruct(dto.ListTransactionsParams{Page: 922337203685477582}))
}

func TestCreateTransactionRequest_MoneyValidation(t *testing.T) {
	require.NoError(t, dto.RegisterValidators())

	valid := dto.CreateTransactionRequest{
		FromAccount: "7f0b2a2e-5c1d-4b8e-9a51-0d3c1f6e2b11",
		ToAccount:   "0c8f9a6d-3e2b-4f71-8d0a-6b5e4c3d2a19",
		Amount:      decimal.RequireFromString("40.50"),
		Type:        "transfer",
	}
	assert.NoError(t, binding.Validator.ValidateStruct(valid))

	zero := valid
	zero.Amount = decimal.Zero
	assert.Error(t, binding.Validator.ValidateStruct(zero))

	precise := valid
	precise.Amount = decimal.RequireFromString("0.001")
	assert.Error(t, binding.Validator.ValidateStruct(precise))

	badType := valid
	badType.Type = "refund"
	assert.Error(t, binding.Validator.ValidateStruct(badType))
}

func TestCreateTransactionRequest_ToCommand(t *testing.T) {
	req := dto.CreateTransactionRequest{
		ToAccount:   "0c8f9a6d-3e2b-4f71-8d0a-6b5e4c3d2a19",
		Amount:      decimal.NewFromInt(30),
		Type:        "deposit",
		Description: " salary ",
	}
	cmd, err := req.ToCommand("key-1")
	require.NoError(t, err)
	assert.Equal(t, "salary", cmd.Description)
	assert.Equal(t, "key-1", cmd.IdempotencyKey)
	assert.Empty(t, cmd.FromAccountID)
}
