// Package services holds the money math and field validation shared by the
// lifecycle engine and the HTTP facade.
package services

import (
	"fmt"
	"math/big"

	"github.com/neartasks/platform/internal/models"
)

var oneHundred = big.NewInt(100)

// PlatformFee computes the fee the ledger charges on top of a reward:
// (reward / 100) * pct with integer division, matching the contract's math
// exactly so the attached deposit is accepted to the yocto.
func PlatformFee(rewardYocto string, feePct uint8) (string, error) {
	reward, ok := new(big.Int).SetString(rewardYocto, 10)
	if !ok || reward.Sign() < 0 {
		return "", fmt.Errorf("%w: %q", models.ErrBadAmount, rewardYocto)
	}
	fee := new(big.Int).Div(reward, oneHundred)
	fee.Mul(fee, big.NewInt(int64(feePct)))
	return fee.String(), nil
}

// EscrowTotal is the deposit that must accompany task creation: the reward
// itself plus the platform fee.
func EscrowTotal(rewardYocto string, feePct uint8) (string, error) {
	fee, err := PlatformFee(rewardYocto, feePct)
	if err != nil {
		return "", err
	}
	reward, _ := new(big.Int).SetString(rewardYocto, 10)
	feeInt, _ := new(big.Int).SetString(fee, 10)
	return new(big.Int).Add(reward, feeInt).String(), nil
}
