package services

import (
	"testing"

	"github.com/neartasks/platform/internal/models"
)

func TestPlatformFee(t *testing.T) {
	cases := []struct {
		name   string
		reward string
		pct    uint8
		want   string
	}{
		{"two percent of 100 NEAR", "100000000000000000000000000", 2, "2000000000000000000000000"},
		{"integer division floors first", "199", 2, "2"},
		{"zero percent", "100000000000000000000000000", 0, "0"},
		{"sub-percent reward", "99", 5, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PlatformFee(tc.reward, tc.pct)
			if err != nil {
				t.Fatalf("PlatformFee: %v", err)
			}
			if got != tc.want {
				t.Errorf("PlatformFee(%s, %d) = %s, want %s", tc.reward, tc.pct, got, tc.want)
			}
		})
	}
}

func TestPlatformFeeRejectsBadReward(t *testing.T) {
	for _, reward := range []string{"", "abc", "-100"} {
		if _, err := PlatformFee(reward, 2); err == nil {
			t.Errorf("PlatformFee(%q) should fail", reward)
		}
	}
}

func TestEscrowTotal(t *testing.T) {
	got, err := EscrowTotal("100000000000000000000000000", 2)
	if err != nil {
		t.Fatalf("EscrowTotal: %v", err)
	}
	if want := "102000000000000000000000000"; got != want {
		t.Errorf("EscrowTotal = %s, want %s", got, want)
	}
}

func TestValidateNewTask(t *testing.T) {
	reward := "2000000000000000000000000"
	cases := []struct {
		name        string
		title       string
		description string
		taskType    models.TaskType
		reward      string
		wantErr     bool
	}{
		{"valid", "t", "d", models.TaskTypeFCFS, reward, false},
		{"empty title", "", "d", models.TaskTypeFCFS, reward, true},
		{"empty description", "t", "", models.TaskTypeFCFS, reward, true},
		{"unknown type", "t", "d", models.TaskType("Negotiated"), reward, true},
		{"reward at floor", "t", "d", models.TaskTypeFCFS, MinRewardYocto, true},
		{"reward above floor", "t", "d", models.TaskTypeFCFS, "1000000000000000000000001", false},
		{"garbage reward", "t", "d", models.TaskTypeFCFS, "one near", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateNewTask(tc.title, tc.description, tc.taskType, tc.reward)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateNewTask: err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	for _, rating := range []uint8{1, 3, 5} {
		if err := ValidateRating(rating); err != nil {
			t.Errorf("rating %d should be valid: %v", rating, err)
		}
	}
	for _, rating := range []uint8{0, 6, 255} {
		if err := ValidateRating(rating); err == nil {
			t.Errorf("rating %d should be rejected", rating)
		}
	}
}
