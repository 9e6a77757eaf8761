package domain

import (
	"strings"
	"time"
)

// UserIdentity is recorded on successful activation and gates every later
// launch on this install.
type UserIdentity struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Mobile  string `json:"mobile"`
}

func (u UserIdentity) Complete() bool {
	return u.Name != "" && u.Company != "" && u.Mobile != ""
}

func (u UserIdentity) Trimmed() UserIdentity {
	return UserIdentity{
		Name:    strings.TrimSpace(u.Name),
		Company: strings.TrimSpace(u.Company),
		Mobile:  strings.TrimSpace(u.Mobile),
	}
}

type RedemptionStatus string

const (
	RedemptionSuccess RedemptionStatus = "success"
	RedemptionError   RedemptionStatus = "error"
)

// RedemptionResult is the registry's verdict on one redeem call.
type RedemptionResult struct {
	Status  RedemptionStatus
	Message string
}

func (r RedemptionResult) Succeeded() bool {
	return r.Status == RedemptionSuccess
}

// Redemption is one row of the registry: a consumed code and who consumed it.
type Redemption struct {
	ID         uint
	Code       string
	Name       string
	Company    string
	Mobile     string
	RedeemedAt time.Time
}
