package gateway

import (
	"sort"
	"strings"
)

type Method string

const (
	MethodCard       Method = "card"
	MethodUPI        Method = "upi"
	MethodNetBanking Method = "netbanking"
)

type BankCredential struct {
	UserID   string
	Password string
}

// Registry is the simulator's acceptance oracle. It is whitelist-only on
// purpose: a simulator must stay deterministic, so anything outside the
// configured credentials is declined regardless of format validity.
type Registry struct {
	CardNumbers []string
	UPIHandles  []string
	Banks       map[string]BankCredential
}

// DefaultRegistry returns the fixed demo credentials. Tests may build
// their own Registry instead.
func DefaultRegistry() *Registry {
	return &Registry{
		CardNumbers: []string{
			"4111111111111111",
			"5555555555554444",
		},
		UPIHandles: []string{
			"success@paytm",
			"success@upi",
		},
		Banks: map[string]BankCredential{
			"sbi":   {UserID: "testuser", Password: "sbi@123"},
			"hdfc":  {UserID: "testuser", Password: "hdfc@123"},
			"icici": {UserID: "testuser", Password: "icici@123"},
			"axis":  {UserID: "testuser", Password: "axis@123"},
			"kotak": {UserID: "testuser", Password: "kotak@123"},
			"pnb":   {UserID: "testuser", Password: "pnb@123"},
		},
	}
}

// AcceptCard matches the whitespace-stripped number against the allow
// list exactly.
func (r *Registry) AcceptCard(number string) bool {
	normalized := strings.Join(strings.Fields(number), "")
	for _, n := range r.CardNumbers {
		if normalized == n {
			return true
		}
	}
	return false
}

// AcceptUPI matches the trimmed handle case-insensitively.
func (r *Registry) AcceptUPI(handle string) bool {
	normalized := strings.ToLower(strings.TrimSpace(handle))
	for _, h := range r.UPIHandles {
		if normalized == strings.ToLower(h) {
			return true
		}
	}
	return false
}

func (r *Registry) HasBank(bankID string) bool {
	_, ok := r.Banks[bankID]
	return ok
}

// AcceptNetBanking requires the exact credential pair configured for the
// selected bank; any single mismatched field declines.
func (r *Registry) AcceptNetBanking(bankID, userID, password string) bool {
	cred, ok := r.Banks[bankID]
	if !ok {
		return false
	}
	return cred.UserID == userID && cred.Password == password
}

// BankIDs lists the selectable banks in stable order.
func (r *Registry) BankIDs() []string {
	ids := make([]string, 0, len(r.Banks))
	for id := range r.Banks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
