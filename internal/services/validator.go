package services

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/neartasks/platform/internal/models"
)

// ErrValidation marks author-supplied task fields the ledger would reject.
var ErrValidation = errors.New("validation failed")

// MinRewardYocto is the ledger's storage-cost floor: rewards at or below it
// are rejected at creation.
const MinRewardYocto = "1000000000000000000000"

var minReward, _ = new(big.Int).SetString(MinRewardYocto, 10)

// ValidateNewTask checks the add_task fields locally before any ledger call,
// mirroring the contract's own asserts.
func ValidateNewTask(title, description string, taskType models.TaskType, rewardYocto string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if taskType != models.TaskTypeFCFS && taskType != models.TaskTypeSelectedByAuthor {
		return fmt.Errorf("%w: unknown task type %q", ErrValidation, taskType)
	}
	reward, ok := new(big.Int).SetString(rewardYocto, 10)
	if !ok {
		return fmt.Errorf("%w: reward is not a valid amount", ErrValidation)
	}
	if reward.Cmp(minReward) <= 0 {
		return fmt.Errorf("%w: reward must exceed %s yoctoNEAR", ErrValidation, MinRewardYocto)
	}
	return nil
}

// ValidateRating checks a completion rating. Zero means "unrated" in ledger
// reads and is never a valid rating to record.
func ValidateRating(rating uint8) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}
