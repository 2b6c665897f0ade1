package v1alpha1

func StringToRole(s string) Role {
	switch s {
	case string(RoleManager):
		return RoleManager
	case string(RoleEmployee):
		return RoleEmployee
	default:
		return RoleEmployee
	}
}

func StringToReferralStatus(s string) ReferralStatus {
	switch s {
	case string(ReferralStatusReserved):
		return ReferralStatusReserved
	case string(ReferralStatusSelected):
		return ReferralStatusSelected
	case string(ReferralStatusRejected):
		return ReferralStatusRejected
	default:
		return ReferralStatusPending
	}
}

func StringToAvailabilityStatus(s string) AvailabilityStatus {
	switch s {
	case string(AvailabilityOnProject):
		return AvailabilityOnProject
	case string(AvailabilityReserved):
		return AvailabilityReserved
	default:
		return AvailabilityAvailable
	}
}
