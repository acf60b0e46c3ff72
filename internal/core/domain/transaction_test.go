package domain_test

import (
	"strings"
	"testing"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeAccount(id string, balance int64) domain.Account {
	return domain.Account{
		AccountID:     id,
		AccountNumber: "12345" + id,
		AccountType:   domain.AccountTypeCurrent,
		Balance:       decimal.NewFromInt(balance),
		Status:        domain.AccountStatusActive,
	}
}

func TestNewAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "whole amount", input: "40"},
		{name: "two decimals", input: "0.01"},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "three decimals", input: "1.005", wantErr: true},
		{name: "too large", input: "1" + strings.Repeat("0", domain.MaxAmountDigits), wantErr: true},
		{name: "not a number", input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewTransactionCommand(t *testing.T) {
	amount := decimal.NewFromInt(10)

	t.Run("defaults status to success and trims description", func(t *testing.T) {
		cmd, err := domain.NewTransactionCommand("a", "b", amount, "Transfer", "", "  rent  ", "")
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionTypeTransfer, cmd.Type)
		assert.Equal(t, domain.TransactionStatusSuccess, cmd.Status)
		assert.Equal(t, "rent", cmd.Description)
	})

	t.Run("deposit may omit the source", func(t *testing.T) {
		_, err := domain.NewTransactionCommand("", "b", amount, "deposit", "", "", "")
		assert.NoError(t, err)
	})

	t.Run("withdrawal may omit the destination", func(t *testing.T) {
		_, err := domain.NewTransactionCommand("a", "", amount, "withdrawal", "", "", "")
		assert.NoError(t, err)
	})

	t.Run("description limit counts characters", func(t *testing.T) {
		// 255 two-byte characters are 510 bytes but still fit
		descrip := strings.Repeat("é", domain.MaxDescriptionLength)
		cmd, err := domain.NewTransactionCommand("a", "b", amount, "transfer", "", descrip, "")
		require.NoError(t, err)
		assert.Equal(t, descrip, cmd.Description)

		_, err = domain.NewTransactionCommand("a", "b", amount, "transfer", "", descrip+"é", "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	invalid := []struct {
		name            string
		from, to, typ   string
		status, descrip string
	}{
		{name: "unknown type", from: "a", to: "b", typ: "refund"},
		{name: "unknown status", from: "a", to: "b", typ: "transfer", status: "pending"},
		{name: "transfer to self", from: "a", to: "a", typ: "transfer"},
		{name: "transfer without source", to: "b", typ: "transfer"},
		{name: "deposit without destination", from: "a", typ: "deposit"},
		{name: "description too long", from: "a", to: "b", typ: "transfer", descrip: strings.Repeat("x", domain.MaxDescriptionLength+1)},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewTransactionCommand(tt.from, tt.to, amount, tt.typ, tt.status, tt.descrip, "")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestTransactionCommand_ParticipantIDs(t *testing.T) {
	amount := decimal.NewFromInt(1)

	transfer := domain.TransactionCommand{FromAccountID: "z", ToAccountID: "a", Amount: amount, Type: domain.TransactionTypeTransfer, Status: domain.TransactionStatusSuccess}
	assert.Equal(t, []string{"a", "z"}, transfer.ParticipantIDs())

	deposit := domain.TransactionCommand{FromAccountID: "vault", ToAccountID: "a", Amount: amount, Type: domain.TransactionTypeDeposit, Status: domain.TransactionStatusSuccess}
	assert.Equal(t, []string{"a"}, deposit.ParticipantIDs())

	withdrawal := domain.TransactionCommand{FromAccountID: "a", ToAccountID: "vault", Amount: amount, Type: domain.TransactionTypeWithdrawal, Status: domain.TransactionStatusSuccess}
	assert.Equal(t, []string{"a"}, withdrawal.ParticipantIDs())

	recorded := transfer
	recorded.Status = domain.TransactionStatusFailed
	assert.Empty(t, recorded.ParticipantIDs())
}

func TestPlanTransaction(t *testing.T) {
	forty := decimal.NewFromInt(40)

	t.Run("transfer moves the amount between accounts", func(t *testing.T) {
		a, b := activeAccount("a", 100), activeAccount("b", 10)
		cmd := domain.TransactionCommand{FromAccountID: "a", ToAccountID: "b", Amount: forty, Type: domain.TransactionTypeTransfer, Status: domain.TransactionStatusSuccess}

		changes, err := domain.PlanTransaction(cmd, a, b)
		require.NoError(t, err)
		require.Len(t, changes, 2)
		assert.True(t, changes[0].After.Equal(decimal.NewFromInt(60)))
		assert.True(t, changes[1].After.Equal(decimal.NewFromInt(50)))
		assert.True(t, changes[0].Before.Sub(changes[0].After).Equal(forty))
		assert.True(t, changes[1].After.Sub(changes[1].Before).Equal(forty))
	})

	t.Run("withdrawal beyond balance is rejected", func(t *testing.T) {
		a := activeAccount("a", 20)
		cmd := domain.TransactionCommand{FromAccountID: "a", ToAccountID: "vault", Amount: decimal.NewFromInt(50), Type: domain.TransactionTypeWithdrawal, Status: domain.TransactionStatusSuccess}

		changes, err := domain.PlanTransaction(cmd, a, domain.Account{AccountID: "vault"})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
		assert.Nil(t, changes)
	})

	t.Run("withdrawal of the whole balance is allowed", func(t *testing.T) {
		a := activeAccount("a", 20)
		cmd := domain.TransactionCommand{FromAccountID: "a", ToAccountID: "vault", Amount: decimal.NewFromInt(20), Type: domain.TransactionTypeWithdrawal, Status: domain.TransactionStatusSuccess}

		changes, err := domain.PlanTransaction(cmd, a, domain.Account{AccountID: "vault"})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.True(t, changes[0].After.IsZero())
	})

	t.Run("deposit into closed account is rejected", func(t *testing.T) {
		c := activeAccount("c", 0)
		c.Status = domain.AccountStatusClosed
		cmd := domain.TransactionCommand{FromAccountID: "vault", ToAccountID: "c", Amount: decimal.NewFromInt(30), Type: domain.TransactionTypeDeposit, Status: domain.TransactionStatusSuccess}

		_, err := domain.PlanTransaction(cmd, domain.Account{AccountID: "vault"}, c)
		assert.ErrorIs(t, err, apperrors.ErrAccountNotActive)
	})

	t.Run("frozen source fails before the balance check", func(t *testing.T) {
		a := activeAccount("a", 0)
		a.Status = domain.AccountStatusFrozen
		cmd := domain.TransactionCommand{FromAccountID: "a", ToAccountID: "b", Amount: forty, Type: domain.TransactionTypeTransfer, Status: domain.TransactionStatusSuccess}

		_, err := domain.PlanTransaction(cmd, a, activeAccount("b", 0))
		assert.ErrorIs(t, err, apperrors.ErrAccountNotActive)
		assert.NotErrorIs(t, err, apperrors.ErrInsufficientBalance)
	})

	t.Run("frozen destination cannot receive a transfer", func(t *testing.T) {
		b := activeAccount("b", 0)
		b.Status = domain.AccountStatusFrozen
		cmd := domain.TransactionCommand{FromAccountID: "a", ToAccountID: "b", Amount: forty, Type: domain.TransactionTypeTransfer, Status: domain.TransactionStatusSuccess}

		_, err := domain.PlanTransaction(cmd, activeAccount("a", 100), b)
		assert.ErrorIs(t, err, apperrors.ErrAccountNotActive)
	})

	t.Run("recorded failure changes nothing", func(t *testing.T) {
		a := activeAccount("a", 0)
		a.Status = domain.AccountStatusClosed
		cmd := domain.TransactionCommand{FromAccountID: "a", ToAccountID: "b", Amount: forty, Type: domain.TransactionTypeTransfer, Status: domain.TransactionStatusFailed}

		changes, err := domain.PlanTransaction(cmd, a, activeAccount("b", 0))
		assert.NoError(t, err)
		assert.Empty(t, changes)
	})
}
