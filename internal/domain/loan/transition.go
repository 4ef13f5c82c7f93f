package loan

import "staff-portal/internal/domain/role"

// PendingStatus is the status a loan must be in for the given reviewer role to act on it.
func PendingStatus(reviewerRole string) (Status, bool) {
	switch reviewerRole {
	case role.Marketing:
		return StatusSubmitted, true
	case role.BranchManager:
		return StatusMarketingApproved, true
	case role.Backoffice, role.SuperAdmin:
		return StatusBranchManagerApproved, true
	}
	return "", false
}

// Next returns the status reached when reviewerRole approves or rejects a loan in status from.
// The lending API owns this table; the portal only ever asks for approve or reject.
func Next(from Status, reviewerRole string, approve bool) (Status, error) {
	pending, ok := PendingStatus(reviewerRole)
	if !ok || pending != from {
		return "", ErrNotPending
	}
	switch from {
	case StatusSubmitted:
		if approve {
			return StatusMarketingApproved, nil
		}
		return StatusMarketingRejected, nil
	case StatusMarketingApproved:
		if approve {
			return StatusBranchManagerApproved, nil
		}
		return StatusBranchManagerRejected, nil
	case StatusBranchManagerApproved:
		if approve {
			return StatusDisbursed, nil
		}
		return StatusRejected, nil
	}
	return "", ErrInvalidTransition
}

// ReviewerRole picks the highest reviewing tier out of roles.
func ReviewerRole(roles []string) (string, bool) {
	for _, want := range []string{role.SuperAdmin, role.Backoffice, role.BranchManager, role.Marketing} {
		for _, r := range roles {
			if r == want {
				return r, true
			}
		}
	}
	return "", false
}
