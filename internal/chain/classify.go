package chain

import "strings"

// FailureReason is the user-facing category a contract-call error maps to.
type FailureReason string

const (
	ReasonRejected              FailureReason = "rejected"
	ReasonInsufficientAllowance FailureReason = "insufficient_allowance"
	ReasonInsufficientBalance   FailureReason = "insufficient_balance"
	ReasonBelowMinimum          FailureReason = "below_minimum"
	ReasonRedemptionLocked      FailureReason = "redemption_locked"
	ReasonRevert                FailureReason = "revert"
)

var reasonMessages = map[FailureReason]string{
	ReasonRejected:              "Transaction was rejected in the wallet",
	ReasonInsufficientAllowance: "Token allowance is too low; approve the vault first",
	ReasonInsufficientBalance:   "Insufficient token balance for this investment",
	ReasonBelowMinimum:          "Investment is below the asset's on-chain minimum",
	ReasonRedemptionLocked:      "Asset is still in its lock-up period",
	ReasonRevert:                "Transaction reverted on chain",
}

// classification patterns, checked in order. Substring matching on error text
// is best effort: node and contract revert strings are not a stable protocol.
var reasonPatterns = []struct {
	reason   FailureReason
	patterns []string
}{
	{ReasonRejected, []string{"user rejected", "user denied", "rejected by user"}},
	{ReasonInsufficientAllowance, []string{"insufficient allowance", "erc20: insufficient allowance", "transfer amount exceeds allowance"}},
	{ReasonInsufficientBalance, []string{"insufficient balance", "transfer amount exceeds balance", "insufficient funds"}},
	{ReasonBelowMinimum, []string{"below minimum", "minimum investment", "amount too small"}},
	{ReasonRedemptionLocked, []string{"redemption not allowed", "lock-up", "lockup", "still locked"}},
}

// Classify maps a contract-call error to a failure reason and its
// user-facing message. Unknown errors fall through to a generic revert.
func Classify(err error) (FailureReason, string) {
	if err == nil {
		return "", ""
	}

	msg := strings.ToLower(err.Error())
	for _, entry := range reasonPatterns {
		for _, p := range entry.patterns {
			if strings.Contains(msg, p) {
				return entry.reason, reasonMessages[entry.reason]
			}
		}
	}
	return ReasonRevert, reasonMessages[ReasonRevert]
}
