package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryFood, NormalizeCategory("Food"))
	assert.Equal(t, CategoryTransport, NormalizeCategory("Transport"))

	// Anything outside the closed set files under Other, never an error.
	assert.Equal(t, CategoryOther, NormalizeCategory("Groceries"))
	assert.Equal(t, CategoryOther, NormalizeCategory("food"))
	assert.Equal(t, CategoryOther, NormalizeCategory(""))
}

func TestCategoryIcon(t *testing.T) {
	assert.Equal(t, "🍔", CategoryFood.Icon())
	assert.Equal(t, CategoryOther.Icon(), Category("bogus").Icon())
}

func TestWalletTypeValid(t *testing.T) {
	assert.True(t, WalletTypeCash.Valid())
	assert.True(t, WalletTypeBank.Valid())
	assert.True(t, WalletTypeEWallet.Valid())
	assert.False(t, WalletType("crypto").Valid())
}

func TestSavingsTargetProgress(t *testing.T) {
	target := &SavingsTarget{TargetAmount: 1000, CurrentAmount: 250}
	assert.InDelta(t, 25.0, target.Progress(), 0.001)

	target.CurrentAmount = 1500
	assert.Equal(t, 100.0, target.Progress())

	zero := &SavingsTarget{TargetAmount: 0, CurrentAmount: 100}
	assert.Zero(t, zero.Progress())
}
